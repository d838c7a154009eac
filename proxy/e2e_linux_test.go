//go:build linux

package proxy_test

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/proxy"
	"github.com/momentics/hioload-proxy/server"
)

// startBackend serves one canned response per connection, then closes it.
func startBackend(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("backend listen: %v", err)
	}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				req, err := http.ReadRequest(bufio.NewReader(c))
				if err != nil {
					return
				}
				fmt.Fprintf(c, "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\nhello %s", req.URL.Path)
			}(c)
		}
	}()
	return ln
}

func TestProxy_EndToEndLoopback(t *testing.T) {
	if testing.Short() {
		t.Skip("opens real sockets")
	}
	backend := startBackend(t)
	defer backend.Close()

	cfg := server.DefaultConfig()
	cfg.Port = 0
	p, err := proxy.New(cfg, proxy.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- p.Run() }()
	defer func() {
		p.Stop()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
		p.Close()
	}()

	for _, path := range []string{"/a", "/b"} {
		c, err := net.DialTimeout("tcp4", p.Addr().String(), time.Second)
		if err != nil {
			t.Fatalf("dial proxy: %v", err)
		}
		c.SetDeadline(time.Now().Add(5 * time.Second))
		fmt.Fprintf(c, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", path, backend.Addr())
		got, err := io.ReadAll(c)
		c.Close()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		want := "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\nhello " + path
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if n := p.Metrics().Counter(control.MetricBackendsOpened); n != 2 {
		t.Fatalf("backends opened = %d", n)
	}
}
