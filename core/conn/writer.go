// File: core/conn/writer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package conn

import (
	"fmt"

	"github.com/momentics/hioload-proxy/api"
)

// AsyncWriter sends one buffer at a time, retaining the unsent remainder of
// a partially written buffer until a later Flush completes it.
type AsyncWriter struct {
	sock     *SocketRef
	protocol api.OutputProtocol
	pending  api.Buffer
}

var _ api.Writer = (*AsyncWriter)(nil)

// NewAsyncWriter binds sock to an output protocol.
func NewAsyncWriter(sock *SocketRef, protocol api.OutputProtocol) *AsyncWriter {
	return &AsyncWriter{sock: sock, protocol: protocol}
}

// Write makes buf the pending buffer and attempts one send. While a buffer
// is pending no other buffer is accepted.
func (w *AsyncWriter) Write(buf api.Buffer) error {
	if w.pending != nil {
		return api.ErrWriterBusy
	}
	w.pending = w.protocol.Transform(buf)
	return w.Flush()
}

// Flush attempts one send of the pending remainder.
func (w *AsyncWriter) Flush() error {
	if w.pending == nil {
		return nil
	}
	if len(w.pending) == 0 {
		w.pending = nil
		return nil
	}
	s := w.sock.Get()
	if s == nil {
		return nil
	}
	n, err := s.Send(w.pending)
	if err != nil {
		if api.IsWouldBlock(err) {
			return nil
		}
		return fmt.Errorf("async write: %w", err)
	}
	if n >= len(w.pending) {
		w.pending = nil
	} else {
		w.pending = w.pending[n:]
	}
	return nil
}

// Pending reports whether a buffer is waiting to be completed.
func (w *AsyncWriter) Pending() bool {
	return w.pending != nil
}
