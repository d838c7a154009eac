// File: server/server.go
// Package server implements the single-threaded event-loop driver: it owns
// the arena of live connections, feeds reactor events to them and removes
// the ones that ask to be closed.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/core/conn"
	"github.com/momentics/hioload-proxy/internal/transport"
	"github.com/momentics/hioload-proxy/reactor"
)

// Loop is the connection arena plus its dispatch loop. All methods except
// Stop and Len must be called from the goroutine running the loop.
type Loop struct {
	reactor     reactor.Reactor
	conns       map[api.ConnID]*conn.Connection
	nextID      api.ConnID
	live        atomic.Int64
	events      []reactor.Event
	running     atomic.Bool
	stop        atomic.Bool
	log         *log.Logger
	metrics     *control.MetricsRegistry
	socketError func(fd int) error
}

var _ conn.Manager = (*Loop)(nil)

// NewLoop builds a loop over r.
func NewLoop(r reactor.Reactor, opts ...Option) *Loop {
	l := &Loop{
		reactor:     r,
		conns:       make(map[api.ConnID]*conn.Connection),
		events:      make([]reactor.Event, reactor.DefaultMaxEvents),
		log:         log.New(os.Stderr, "", log.LstdFlags),
		socketError: transport.SocketError,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add stores c under a fresh ID and registers its socket with the reactor.
// On failure the connection's socket is released without running its
// close callback.
func (l *Loop) Add(c *conn.Connection) (api.ConnID, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, fmt.Errorf("add connection: %w", api.ErrSocketClosed)
	}
	l.nextID++
	id := l.nextID
	c.SetID(id)
	l.conns[id] = c
	if err := l.reactor.Register(fd, id); err != nil {
		delete(l.conns, id)
		c.Discard()
		return 0, fmt.Errorf("add connection %d: %w", id, err)
	}
	l.live.Add(1)
	return id, nil
}

// Lookup returns the live connection for id.
func (l *Loop) Lookup(id api.ConnID) (*conn.Connection, bool) {
	c, ok := l.conns[id]
	return c, ok
}

// Remove tears down the connection: it leaves the arena, its descriptor is
// unregistered, its close callback runs and its socket is closed. Unknown
// IDs are ignored.
func (l *Loop) Remove(id api.ConnID) {
	c, ok := l.conns[id]
	if !ok {
		return
	}
	delete(l.conns, id)
	l.live.Add(-1)
	if fd := c.Fd(); fd >= 0 {
		if err := l.reactor.Unregister(fd); err != nil {
			l.log.Printf("[loop] connection %d: %v", id, err)
		}
	}
	if err := c.Close(); err != nil {
		l.log.Printf("[loop] connection %d close: %v", id, err)
	}
	l.metrics.Add(control.MetricClosed, 1)
}

// Len returns the number of live connections.
func (l *Loop) Len() int {
	return int(l.live.Load())
}

// Shutdown removes every connection and closes the reactor. It must not be
// called while Run is active.
func (l *Loop) Shutdown() error {
	for id := range l.conns {
		l.Remove(id)
	}
	return l.reactor.Close()
}
