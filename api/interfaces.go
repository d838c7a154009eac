// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core contracts of the reactor/connection engine. Concrete implementations
// live in internal/transport, core/conn, core/protocol and proxy.

package api

// ConnID identifies a connection in the event loop's arena. IDs are never
// reused; zero is reserved and never names a connection.
type ConnID uint64

// Socket is a non-blocking stream socket owned by exactly one connection.
type Socket interface {
	// Fd returns the OS descriptor, or -1 once closed.
	Fd() int

	// Recv reads into buf. It returns n > 0 on data, ErrWouldBlock when
	// nothing is available, io.EOF on orderly peer shutdown, or a fatal error.
	Recv(buf []byte) (int, error)

	// Send writes buf. It returns the number of bytes written, ErrWouldBlock
	// when no buffer space is available, or a fatal error.
	Send(buf []byte) (int, error)

	// Close releases the descriptor.
	Close() error
}

// Reader drains a socket into an input protocol.
type Reader interface {
	// Read returns closed=true once the peer has shut down. A non-nil error
	// is fatal for the connection.
	Read() (closed bool, err error)
}

// Writer pushes output buffers into a socket.
type Writer interface {
	// Write transforms buf and attempts to send it. It fails with
	// ErrWriterBusy while a previous buffer is still pending.
	Write(buf Buffer) error

	// Flush retries the pending buffer, if any.
	Flush() error

	// Pending reports whether a partially sent buffer is retained.
	Pending() bool
}

// Closer is notified once when its connection is torn down.
type Closer interface {
	OnClose()
}

// InputProtocol turns raw chunks into application messages.
type InputProtocol interface {
	ProcessChunk(chunk Buffer)
}

// OutputProtocol transforms an outbound message before it is written.
type OutputProtocol interface {
	Transform(msg Buffer) Buffer
}

// RequestHandler consumes complete messages produced by an InputProtocol.
type RequestHandler interface {
	HandleRequest(msg Buffer)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc func(msg Buffer)

// HandleRequest calls f(msg).
func (f RequestHandlerFunc) HandleRequest(msg Buffer) { f(msg) }

// CloserFunc adapts a function to Closer.
type CloserFunc func()

// OnClose calls f().
func (f CloserFunc) OnClose() { f() }
