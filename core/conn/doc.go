// Package conn
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connections and their stream adapters. A Connection is the unit the event
// loop dispatches readiness to; it owns one socket and delegates input to an
// AsyncReader (socket -> framer) and output to an AsyncWriter (queue ->
// socket). Readers and writers borrow the socket through a SocketRef and see
// it vanish once the connection is closed.
package conn
