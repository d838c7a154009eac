// File: proxy/acceptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package proxy

import (
	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/core/conn"
)

// Listener is a listening socket. AcceptSocket returns a nil socket and nil
// error when no connection is pending.
type Listener interface {
	api.Socket
	AcceptSocket() (api.Socket, error)
}

// Acceptor is the reader of the listening connection: every input event
// accepts clients until none is pending.
type Acceptor struct {
	sock  *conn.SocketRef
	relay *Relay
}

var _ api.Reader = (*Acceptor)(nil)

// NewAcceptor returns an Acceptor over the listening connection's socket.
func NewAcceptor(sock *conn.SocketRef, relay *Relay) *Acceptor {
	return &Acceptor{sock: sock, relay: relay}
}

// Read accepts pending connections. Accept failures are logged and end this
// round; the listener itself stays open.
func (a *Acceptor) Read() (bool, error) {
	ln, ok := a.sock.Get().(Listener)
	if !ok {
		return true, nil
	}
	for {
		s, err := ln.AcceptSocket()
		if err != nil {
			a.relay.log.Printf("[proxy] accept: %v", err)
			return false, nil
		}
		if s == nil {
			return false, nil
		}
		a.relay.metrics.Add(control.MetricAccepted, 1)
		if _, err := a.relay.AddClient(s); err != nil {
			a.relay.log.Printf("[proxy] add client: %v", err)
		}
	}
}
