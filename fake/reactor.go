// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"fmt"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/reactor"
)

// Reactor is a scripted reactor.Reactor. Each Push queues one batch that a
// later Wait returns; Wait with nothing queued returns zero events.
type Reactor struct {
	Registered   map[int]api.ConnID
	Unregistered []int
	Wakes        int
	Closed       bool
	RegisterErr  error

	batches [][]reactor.Event
}

var _ reactor.Reactor = (*Reactor)(nil)

// NewReactor returns an empty fake reactor.
func NewReactor() *Reactor {
	return &Reactor{Registered: make(map[int]api.ConnID)}
}

// Push queues one batch of events.
func (r *Reactor) Push(events ...reactor.Event) {
	r.batches = append(r.batches, events)
}

// Register implements reactor.Reactor.
func (r *Reactor) Register(fd int, tag api.ConnID) error {
	if r.RegisterErr != nil {
		return r.RegisterErr
	}
	if _, dup := r.Registered[fd]; dup {
		return fmt.Errorf("fake reactor: fd %d already registered", fd)
	}
	r.Registered[fd] = tag
	return nil
}

// Unregister implements reactor.Reactor.
func (r *Reactor) Unregister(fd int) error {
	delete(r.Registered, fd)
	r.Unregistered = append(r.Unregistered, fd)
	return nil
}

// Wait implements reactor.Reactor.
func (r *Reactor) Wait(events []reactor.Event) (int, error) {
	if len(r.batches) == 0 {
		return 0, nil
	}
	batch := r.batches[0]
	r.batches = r.batches[1:]
	return copy(events, batch), nil
}

// Wake implements reactor.Reactor.
func (r *Reactor) Wake() error {
	r.Wakes++
	return nil
}

// Close implements reactor.Reactor.
func (r *Reactor) Close() error {
	r.Closed = true
	return nil
}

// Pending returns the number of queued batches.
func (r *Reactor) Pending() int { return len(r.batches) }
