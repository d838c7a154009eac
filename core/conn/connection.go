// File: core/conn/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection state machine driven by reactor readiness.

package conn

import (
	"github.com/eapache/queue"
	"github.com/momentics/hioload-proxy/api"
)

// Kind tags the closed set of connection variants.
type Kind uint8

const (
	// KindAcceptor wraps a listening socket; input only.
	KindAcceptor Kind = iota
	// KindClient relays between a proxy client and its backends.
	KindClient
	// KindBackend relays backend responses to one client.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindAcceptor:
		return "acceptor"
	case KindClient:
		return "client"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Manager owns live connections. Add registers a connection with the
// reactor and returns the identifier used to reach it afterwards; Lookup
// reports false for connections that have already been removed.
type Manager interface {
	Add(c *Connection) (api.ConnID, error)
	Lookup(id api.ConnID) (*Connection, bool)
}

// Connection owns one socket and routes readiness to its reader and writer.
// Relay kinds queue output in FIFO order; acceptors drop output.
type Connection struct {
	id     api.ConnID
	kind   Kind
	sock   *SocketRef
	reader api.Reader
	writer api.Writer
	closer api.Closer

	output           *queue.Queue // of api.Buffer
	closeAfterOutput bool
	pendingClose     bool
	closed           bool
}

// New creates an unregistered connection owning sock. Reader, writer and
// closer are attached afterwards, typically once the connection has an ID.
func New(kind Kind, sock api.Socket) *Connection {
	c := &Connection{kind: kind, sock: NewSocketRef(sock)}
	if kind != KindAcceptor {
		c.output = queue.New()
	}
	return c
}

// ID returns the identifier assigned by the Manager, zero before Add.
func (c *Connection) ID() api.ConnID { return c.id }

// SetID is called once by the Manager.
func (c *Connection) SetID(id api.ConnID) { c.id = id }

// Kind returns the connection variant.
func (c *Connection) Kind() Kind { return c.kind }

// Socket returns the non-owning handle for readers and writers.
func (c *Connection) Socket() *SocketRef { return c.sock }

// Fd returns the socket descriptor, -1 once closed.
func (c *Connection) Fd() int {
	if s := c.sock.Get(); s != nil {
		return s.Fd()
	}
	return -1
}

func (c *Connection) SetReader(r api.Reader)  { c.reader = r }
func (c *Connection) SetWriter(w api.Writer)  { c.writer = w }
func (c *Connection) SetCloser(cl api.Closer) { c.closer = cl }

// OnInput runs the reader. Orderly peer shutdown requests closure; a
// returned error is fatal for this connection only.
func (c *Connection) OnInput() error {
	if c.reader == nil || c.closed {
		return nil
	}
	closed, err := c.reader.Read()
	if closed {
		c.pendingClose = true
	}
	return err
}

// OnOutput drains the output queue through the writer. As soon as the
// writer is left holding an unsent remainder it returns, and the remainder
// is retried on the next writable event; later buffers wait their turn.
// Once everything is flushed, a close-after-output request takes effect.
func (c *Connection) OnOutput() error {
	if c.output == nil || c.writer == nil || c.closed {
		return nil
	}
	if c.writer.Pending() {
		if err := c.writer.Flush(); err != nil {
			return err
		}
		if c.writer.Pending() {
			return nil
		}
	}
	for c.output.Length() > 0 {
		if err := c.writer.Write(c.output.Remove().(api.Buffer)); err != nil {
			return err
		}
		if c.writer.Pending() {
			return nil
		}
	}
	if c.closeAfterOutput {
		c.pendingClose = true
	}
	return nil
}

// AddOutput queues buf behind previously queued output.
func (c *Connection) AddOutput(buf api.Buffer) {
	if c.output == nil || c.closed {
		return
	}
	c.output.Add(buf)
}

// Queued returns the number of buffers waiting in the output queue.
func (c *Connection) Queued() int {
	if c.output == nil {
		return 0
	}
	return c.output.Length()
}

// SetCloseAfterOutput asks the connection to close once its queued output
// has been flushed.
func (c *Connection) SetCloseAfterOutput() {
	c.closeAfterOutput = true
}

// NeedClose reports whether the connection asked to be removed. It never
// reverts to false.
func (c *Connection) NeedClose() bool { return c.pendingClose }

// Closed reports whether Close already ran.
func (c *Connection) Closed() bool { return c.closed }

// Close runs the close callback and releases the socket. Only the first
// call has any effect.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pendingClose = true
	if c.closer != nil {
		c.closer.OnClose()
	}
	if s := c.sock.release(); s != nil {
		return s.Close()
	}
	return nil
}

// Discard releases the socket of a connection that never became live. The
// close callback does not run.
func (c *Connection) Discard() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pendingClose = true
	if s := c.sock.release(); s != nil {
		return s.Close()
	}
	return nil
}
