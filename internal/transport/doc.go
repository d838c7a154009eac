// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking TCP socket primitives for the proxy: listening, accepting,
// connecting, receiving and sending with a uniform would-block / EOF / fatal
// error contract, plus destination host resolution. Platform code is split by
// build tags (linux/other).

package transport
