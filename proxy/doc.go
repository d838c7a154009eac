// Package proxy
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Forward-proxy pairing on top of the event loop. Every header block a client
// sends is matched against its Host field; a fresh backend connection is
// opened for it and the request bytes are queued there. Whatever the backend
// returns is relayed verbatim to the client, and when the backend goes away
// the client is closed once its queued output has drained.
//
// Client and backend refer to each other only by connection ID, looked up in
// the loop's arena, so a peer that has already been removed is simply not
// found. A closing client does not signal its backends; they are cleaned up
// when their own sockets report EOF or an error.
package proxy
