// File: core/conn/reader.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package conn

import (
	"errors"
	"fmt"
	"io"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/pool"
)

// AsyncReader drains a non-blocking socket into an input protocol.
type AsyncReader struct {
	sock     *SocketRef
	protocol api.InputProtocol
	scratch  api.BufferPool
}

var _ api.Reader = (*AsyncReader)(nil)

// NewAsyncReader binds sock to protocol. A nil scratch pool selects
// pool.Default().
func NewAsyncReader(sock *SocketRef, protocol api.InputProtocol, scratch api.BufferPool) *AsyncReader {
	if scratch == nil {
		scratch = pool.Default()
	}
	return &AsyncReader{sock: sock, protocol: protocol, scratch: scratch}
}

// Read receives until the socket would block or the peer closes. Each
// received chunk is copied out of the scratch buffer before it is handed on.
func (r *AsyncReader) Read() (bool, error) {
	s := r.sock.Get()
	if s == nil {
		return true, nil
	}

	buf := r.scratch.Get()
	defer r.scratch.Put(buf)

	for {
		n, err := s.Recv(buf)
		switch {
		case err == nil && n > 0:
			r.protocol.ProcessChunk(api.Buffer(buf[:n]).Clone())
		case err == nil, errors.Is(err, io.EOF):
			return true, nil
		case api.IsWouldBlock(err):
			return false, nil
		default:
			return true, fmt.Errorf("async read: %w", err)
		}
	}
}
