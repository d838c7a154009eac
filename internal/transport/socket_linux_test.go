//go:build linux

package transport_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/internal/transport"
)

func loopbackPair(t *testing.T) (*transport.Socket, *transport.Socket) {
	t.Helper()
	ln, err := transport.Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	if s, err := ln.Accept(); s != nil || err != nil {
		t.Fatalf("accept on idle listener = (%v, %v), want (nil, nil)", s, err)
	}

	addr, err := ln.LocalAddr()
	if err != nil {
		t.Fatalf("local addr: %v", err)
	}
	client, err := transport.Connect(addr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		server, err := ln.Accept()
		if err != nil {
			t.Fatalf("accept: %v", err)
		}
		if server != nil {
			t.Cleanup(func() { server.Close() })
			return client, server
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no connection accepted")
	return nil, nil
}

func recvEventually(t *testing.T, s *transport.Socket, buf []byte) (int, error) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := s.Recv(buf)
		if !api.IsWouldBlock(err) {
			return n, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("recv kept blocking")
	return 0, nil
}

func TestSocket_SendRecvAndEOF(t *testing.T) {
	client, server := loopbackPair(t)

	buf := make([]byte, 64)
	if _, err := server.Recv(buf); !errors.Is(err, api.ErrWouldBlock) {
		t.Fatalf("recv on empty socket: %v, want ErrWouldBlock", err)
	}

	// the connect may still be in progress right after Accept on the other side
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := client.Send([]byte("hello"))
		if err == nil && n == 5 {
			break
		}
		if err != nil && !api.IsWouldBlock(err) {
			t.Fatalf("send: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("send kept blocking")
		}
		time.Sleep(time.Millisecond)
	}

	n, err := recvEventually(t, server, buf)
	if err != nil || string(buf[:n]) != "hello" {
		t.Fatalf("recv = %q, %v", buf[:n], err)
	}

	client.Close()
	if _, err := recvEventually(t, server, buf); err != io.EOF {
		t.Fatalf("recv after peer close: %v, want io.EOF", err)
	}
}

func TestSocket_CloseIsFinal(t *testing.T) {
	s, err := transport.NewSocket()
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	if s.Fd() < 0 {
		t.Fatal("fresh socket has no descriptor")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Fd() != -1 {
		t.Fatalf("fd after close = %d, want -1", s.Fd())
	}
	if _, err := s.Recv(make([]byte, 1)); !errors.Is(err, api.ErrSocketClosed) {
		t.Fatalf("recv after close: %v", err)
	}
	if _, err := s.Send([]byte("x")); !errors.Is(err, api.ErrSocketClosed) {
		t.Fatalf("send after close: %v", err)
	}
}

func TestListen_BadAddress(t *testing.T) {
	if _, err := transport.Listen("not-an-ip", 80); err == nil {
		t.Fatal("expected error for bad address")
	}
	if _, err := transport.Listen("127.0.0.1", 70000); err == nil {
		t.Fatal("expected error for bad port")
	}
}
