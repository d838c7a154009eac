// File: server/run.go
// Package server implements the dispatch loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/core/conn"
	"github.com/momentics/hioload-proxy/reactor"
)

// Run dispatches events until Stop is called. It returns an error only if
// the reactor itself fails; connection failures are contained.
func (l *Loop) Run() error {
	if !l.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for !l.stop.Load() {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Stop makes Run return after the batch in progress.
func (l *Loop) Stop() {
	l.stop.Store(true)
	if err := l.reactor.Wake(); err != nil {
		l.log.Printf("[loop] wake: %v", err)
	}
}

// Step waits for one batch of events and dispatches it.
func (l *Loop) Step() error {
	n, err := l.reactor.Wait(l.events)
	if err != nil {
		return err
	}
	for _, ev := range l.events[:n] {
		l.dispatch(ev)
	}
	return nil
}

// dispatch handles one event. Error and hangup tear the connection down
// before any I/O is attempted; otherwise input runs before output, and a
// connection that requested closure is removed before anything else
// touches it.
func (l *Loop) dispatch(ev reactor.Event) {
	c, ok := l.conns[ev.Tag]
	if !ok {
		// removed earlier in this batch
		return
	}

	if ev.Kind.Failed() {
		if err := l.socketError(c.Fd()); err != nil {
			l.log.Printf("[loop] connection %d (%s) %s: %v", c.ID(), c.Kind(), ev.Kind, err)
		}
		l.Remove(c.ID())
		return
	}

	if ev.Kind.Readable() {
		if err := c.OnInput(); err != nil {
			l.fail(c, err)
			return
		}
		if c.NeedClose() {
			l.Remove(c.ID())
			return
		}
	}

	if ev.Kind.Writable() {
		if err := c.OnOutput(); err != nil {
			l.fail(c, err)
			return
		}
		if c.NeedClose() {
			l.Remove(c.ID())
			return
		}
	}

	if ev.Kind.PeerClosed() && !ev.Kind.Readable() {
		l.Remove(c.ID())
	}
}

func (l *Loop) fail(c *conn.Connection, err error) {
	l.log.Printf("[loop] connection %d (%s): %v", c.ID(), c.Kind(), err)
	l.metrics.Add(control.MetricFailed, 1)
	l.Remove(c.ID())
}
