// File: proxy/proxy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Proxy facade: binds the listener and wires reactor, loop, relay and
// acceptor together.

package proxy

import (
	"fmt"
	"net/netip"
	"runtime"

	"github.com/momentics/hioload-proxy/affinity"
	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/core/conn"
	"github.com/momentics/hioload-proxy/internal/transport"
	"github.com/momentics/hioload-proxy/pool"
	"github.com/momentics/hioload-proxy/reactor"
	"github.com/momentics/hioload-proxy/server"
)

// Proxy is a single-threaded forward proxy.
type Proxy struct {
	cfg    *server.Config
	addr   netip.AddrPort
	loop   *server.Loop
	relay  *Relay
	probes *control.DebugProbes
}

// New binds the listening socket and prepares the event loop. Any failure
// here is a startup failure; nothing is left open.
func New(cfg *server.Config, opts ...Option) (*Proxy, error) {
	if cfg == nil {
		cfg = server.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts = append([]Option{WithScratchPool(pool.NewBytePool(cfg.ReadBufferSize))}, opts...)
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	r, err := reactor.New(cfg.MaxEvents)
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	ln, err := transport.Listen(cfg.Address, cfg.Port)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("startup: %w", err)
	}
	addr, err := ln.LocalAddr()
	if err != nil {
		ln.Close()
		r.Close()
		return nil, fmt.Errorf("startup: %w", err)
	}

	loop := server.NewLoop(r,
		server.WithLogger(s.log),
		server.WithMetrics(s.metrics),
		server.WithMaxEvents(cfg.MaxEvents),
	)
	relay := &Relay{mgr: loop, settings: s}

	acc := conn.New(conn.KindAcceptor, ln)
	acc.SetReader(NewAcceptor(acc.Socket(), relay))
	if _, err := loop.Add(acc); err != nil {
		loop.Shutdown()
		return nil, fmt.Errorf("startup: %w", err)
	}

	probes := control.NewDebugProbes()
	probes.RegisterProbe("connections.live", func() any { return loop.Len() })
	control.RegisterPlatformProbes(probes)
	s.metrics.Set("listen.addr", addr.String())

	return &Proxy{cfg: cfg, addr: addr, loop: loop, relay: relay, probes: probes}, nil
}

// Run serves until Stop. It returns only on Stop or a reactor failure.
// With Config.Pin set, the calling goroutine keeps its OS thread for good
// and that thread is pinned to Config.CPU.
func (p *Proxy) Run() error {
	if p.cfg.Pin {
		runtime.LockOSThread()
		if err := affinity.SetAffinity(p.cfg.CPU); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		p.relay.log.Printf("[proxy] event loop pinned to cpu %d", p.cfg.CPU)
	}
	p.relay.log.Printf("[proxy] listening on %s", p.addr)
	return p.loop.Run()
}

// Stop asks Run to return; safe to call from another goroutine.
func (p *Proxy) Stop() {
	p.loop.Stop()
}

// Close releases every connection, the listener and the reactor. Call it
// after Run has returned.
func (p *Proxy) Close() error {
	return p.loop.Shutdown()
}

// Addr returns the bound listen address.
func (p *Proxy) Addr() netip.AddrPort { return p.addr }

// Metrics returns the proxy's counters.
func (p *Proxy) Metrics() *control.MetricsRegistry { return p.relay.metrics }

// Debug returns the probe registry.
func (p *Proxy) Debug() api.Debug { return p.probes }
