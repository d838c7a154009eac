// File: server/options.go
// Package server defines functional options for the event loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log"

	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/reactor"
)

// Option customizes loop initialization.
type Option func(*Loop)

// WithLogger routes loop diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.log = logger
		}
	}
}

// WithMetrics records connection counters into reg.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(l *Loop) {
		l.metrics = reg
	}
}

// WithMaxEvents overrides the number of events fetched per wait.
func WithMaxEvents(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.events = make([]reactor.Event, n)
		}
	}
}

// WithSocketErrorProbe sets the function used to describe error events.
func WithSocketErrorProbe(fn func(fd int) error) Option {
	return func(l *Loop) {
		l.socketError = fn
	}
}
