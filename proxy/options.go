// File: proxy/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package proxy

import (
	"context"
	"log"
	"os"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/internal/transport"
)

// Dialer opens a non-blocking socket towards a request's host token.
type Dialer interface {
	Dial(ctx context.Context, host string) (api.Socket, error)
}

type settings struct {
	log     *log.Logger
	dialer  Dialer
	metrics *control.MetricsRegistry
	scratch api.BufferPool
}

func defaultSettings() settings {
	return settings{
		log:     log.New(os.Stderr, "", log.LstdFlags),
		dialer:  transport.NewDialer(),
		metrics: control.NewMetricsRegistry(),
	}
}

// Option customizes a Proxy or Relay.
type Option func(*settings)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithDialer replaces the backend dialer.
func WithDialer(d Dialer) Option {
	return func(s *settings) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithMetrics records counters into reg.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(s *settings) {
		if reg != nil {
			s.metrics = reg
		}
	}
}

// WithScratchPool sets the pool readers borrow receive buffers from.
func WithScratchPool(p api.BufferPool) Option {
	return func(s *settings) {
		s.scratch = p
	}
}
