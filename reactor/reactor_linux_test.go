//go:build linux

package reactor

import (
	"testing"
	"time"

	"github.com/momentics/hioload-proxy/api"
	"golang.org/x/sys/unix"
)

func socketPair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestLinuxReactor_TagsAndClassification(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatalf("new reactor: %v", err)
	}
	defer r.Close()

	a, b := socketPair(t)
	if err := r.Register(a, api.ConnID(7)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := unix.Write(b, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	events := make([]Event, 16)
	n := 0
	for n == 0 {
		if n, err = r.Wait(events); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if events[0].Tag != 7 {
		t.Fatalf("tag = %d, want 7", events[0].Tag)
	}
	if !events[0].Kind.Readable() || !events[0].Kind.Writable() {
		t.Fatalf("kind = %v, want readable|writable", events[0].Kind)
	}
}

func TestLinuxReactor_PeerCloseReported(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatalf("new reactor: %v", err)
	}
	defer r.Close()

	a, b := socketPair(t)
	if err := r.Register(a, api.ConnID(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	unix.Shutdown(b, unix.SHUT_WR)

	events := make([]Event, 16)
	n := 0
	for n == 0 {
		if n, err = r.Wait(events); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if !events[0].Kind.PeerClosed() {
		t.Fatalf("kind = %v, want rdhup", events[0].Kind)
	}
}

func TestLinuxReactor_WakeUnblocksWait(t *testing.T) {
	r, err := New(4)
	if err != nil {
		t.Fatalf("new reactor: %v", err)
	}
	defer r.Close()

	done := make(chan int, 1)
	go func() {
		n, _ := r.Wait(make([]Event, 4))
		done <- n
	}()
	time.Sleep(10 * time.Millisecond)
	if err := r.Wake(); err != nil {
		t.Fatalf("wake: %v", err)
	}
	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("wake produced %d events, want 0", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after wake")
	}
}

func TestLinuxReactor_UnregisteredDescriptorIsSilent(t *testing.T) {
	r, err := New(4)
	if err != nil {
		t.Fatalf("new reactor: %v", err)
	}
	defer r.Close()

	a, b := socketPair(t)
	if err := r.Register(a, api.ConnID(3)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Unregister(a); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	unix.Write(b, []byte("x"))

	go func() {
		time.Sleep(20 * time.Millisecond)
		r.Wake()
	}()
	n, err := r.Wait(make([]Event, 4))
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d events for an unregistered descriptor", n)
	}
}
