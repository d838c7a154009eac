// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for sockets and the reactor.

package fake

import (
	"bytes"
	"io"

	"github.com/momentics/hioload-proxy/api"
)

// recvResult is one scripted Recv outcome.
type recvResult struct {
	data []byte
	err  error
}

// Socket is a scripted api.Socket. Recv returns queued results in order and
// ErrWouldBlock once the script is exhausted; Send records written bytes.
type Socket struct {
	fd         int
	reads      []recvResult
	sent       bytes.Buffer
	sendLimit  int
	blockSends int
	sendErr    error
	closeCalls int
	sendCalls  int
}

var _ api.Socket = (*Socket)(nil)

// NewSocket creates a fake socket reporting fd.
func NewSocket(fd int) *Socket {
	return &Socket{fd: fd}
}

// QueueRead scripts data for a future Recv.
func (s *Socket) QueueRead(data string) {
	s.reads = append(s.reads, recvResult{data: []byte(data)})
}

// QueueEOF scripts an orderly peer shutdown.
func (s *Socket) QueueEOF() {
	s.reads = append(s.reads, recvResult{err: io.EOF})
}

// QueueError scripts a Recv failure.
func (s *Socket) QueueError(err error) {
	s.reads = append(s.reads, recvResult{err: err})
}

// SetSendLimit caps the bytes accepted per Send; zero means unlimited.
func (s *Socket) SetSendLimit(n int) { s.sendLimit = n }

// BlockSends makes the next n sends report ErrWouldBlock.
func (s *Socket) BlockSends(n int) { s.blockSends = n }

// FailSends makes every later Send fail with err.
func (s *Socket) FailSends(err error) { s.sendErr = err }

// Sent returns everything written so far.
func (s *Socket) Sent() string { return s.sent.String() }

// SendCalls returns the number of Send invocations.
func (s *Socket) SendCalls() int { return s.sendCalls }

// CloseCalls returns how many times Close ran.
func (s *Socket) CloseCalls() int { return s.closeCalls }

// Fd implements api.Socket.
func (s *Socket) Fd() int {
	if s.closeCalls > 0 {
		return -1
	}
	return s.fd
}

// Recv implements api.Socket.
func (s *Socket) Recv(buf []byte) (int, error) {
	if s.closeCalls > 0 {
		return 0, api.ErrSocketClosed
	}
	if len(s.reads) == 0 {
		return 0, api.ErrWouldBlock
	}
	r := s.reads[0]
	if r.err != nil {
		s.reads = s.reads[1:]
		return 0, r.err
	}
	n := copy(buf, r.data)
	if n < len(r.data) {
		s.reads[0].data = r.data[n:]
	} else {
		s.reads = s.reads[1:]
	}
	return n, nil
}

// Send implements api.Socket.
func (s *Socket) Send(buf []byte) (int, error) {
	s.sendCalls++
	if s.closeCalls > 0 {
		return 0, api.ErrSocketClosed
	}
	if s.sendErr != nil {
		return 0, s.sendErr
	}
	if s.blockSends > 0 {
		s.blockSends--
		return 0, api.ErrWouldBlock
	}
	n := len(buf)
	if s.sendLimit > 0 && n > s.sendLimit {
		n = s.sendLimit
	}
	s.sent.Write(buf[:n])
	return n, nil
}

// Close implements api.Socket.
func (s *Socket) Close() error {
	s.closeCalls++
	return nil
}

// Listener is a fake listening socket with scripted pending connections.
type Listener struct {
	*Socket
	pending   []api.Socket
	acceptErr error
}

// NewListener creates a fake listener reporting fd.
func NewListener(fd int) *Listener {
	return &Listener{Socket: NewSocket(fd)}
}

// QueueAccept makes s available to a future AcceptSocket.
func (l *Listener) QueueAccept(s api.Socket) {
	l.pending = append(l.pending, s)
}

// FailAccept makes the next AcceptSocket fail with err.
func (l *Listener) FailAccept(err error) { l.acceptErr = err }

// AcceptSocket returns the next queued socket, or nil when none is pending.
func (l *Listener) AcceptSocket() (api.Socket, error) {
	if err := l.acceptErr; err != nil {
		l.acceptErr = nil
		return nil, err
	}
	if len(l.pending) == 0 {
		return nil, nil
	}
	s := l.pending[0]
	l.pending = l.pending[1:]
	return s, nil
}
