// File: cmd/hioload-proxy/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded forward HTTP proxy.
// Relays every framed request to the host named in its Host field and
// streams the response back until the backend closes.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/proxy"
	"github.com/momentics/hioload-proxy/server"
)

func main() {
	cfg := server.DefaultConfig()
	flag.StringVar(&cfg.Address, "address", cfg.Address, "IPv4 listen address")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "TCP listen port")
	flag.IntVar(&cfg.MaxEvents, "max-events", cfg.MaxEvents, "readiness events per reactor wait")
	flag.IntVar(&cfg.ReadBufferSize, "read-buffer", cfg.ReadBufferSize, "bytes per socket read")
	cpu := flag.Int("cpu", -1, "pin the event loop to this CPU (-1 disables)")
	stats := flag.Duration("stats", 0, "print counters at this interval (0 disables)")
	flag.Parse()
	if *cpu >= 0 {
		cfg.Pin, cfg.CPU = true, *cpu
	}

	p, err := proxy.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start proxy: %v", err)
	}

	done := make(chan struct{})
	if *stats > 0 {
		go report(p.Metrics(), *stats, done)
	}

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Shutdown signal received")
		p.Stop()
	}()

	runErr := p.Run()
	close(done)
	if err := p.Close(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Event loop failed: %v", runErr)
	}
	log.Println("Proxy shutdown complete.")
}

func report(m *control.MetricsRegistry, every time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			log.Printf("accepted=%d closed=%d backends=%d failed=%d dropped=%d relayed=%dB",
				m.Counter(control.MetricAccepted),
				m.Counter(control.MetricClosed),
				m.Counter(control.MetricBackendsOpened),
				m.Counter(control.MetricBackendsFailed),
				m.Counter(control.MetricRequestsDropped),
				m.Counter(control.MetricBytesRelayed),
			)
		}
	}
}
