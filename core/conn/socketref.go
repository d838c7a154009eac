// File: core/conn/socketref.go
// Author: momentics <momentics@gmail.com>

package conn

import "github.com/momentics/hioload-proxy/api"

// SocketRef is the non-owning handle readers and writers use to reach their
// connection's socket. Get returns nil after the owning connection closed.
type SocketRef struct {
	sock api.Socket
}

// NewSocketRef wraps sock. Only a Connection may release it.
func NewSocketRef(sock api.Socket) *SocketRef {
	return &SocketRef{sock: sock}
}

// Get returns the socket, or nil once it was released.
func (r *SocketRef) Get() api.Socket {
	if r == nil {
		return nil
	}
	return r.sock
}

func (r *SocketRef) release() api.Socket {
	s := r.sock
	r.sock = nil
	return s
}
