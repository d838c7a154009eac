//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-proxy/api"
	"golang.org/x/sys/unix"
)

// interest is level-triggered: output readiness stays reported while the
// socket is writable, which is what drains queued output added by peers.
const interest = unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLRDHUP

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd   int
	wakefd int
	raw    []unix.EpollEvent
	tags   map[int32]api.ConnID
}

// New constructs the epoll reactor. maxEvents <= 0 selects DefaultMaxEvents.
func New(maxEvents int) (Reactor, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wake: %w", err)
	}
	return &linuxReactor{
		epfd:   epfd,
		wakefd: wakefd,
		raw:    make([]unix.EpollEvent, maxEvents),
		tags:   make(map[int32]api.ConnID),
	}, nil
}

// Register adds fd to the epoll watch list.
func (r *linuxReactor) Register(fd int, tag api.ConnID) error {
	ev := unix.EpollEvent{Events: interest, Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	r.tags[int32(fd)] = tag
	return nil
}

// Unregister removes fd from the epoll watch list.
func (r *linuxReactor) Unregister(fd int) error {
	delete(r.tags, int32(fd))
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks indefinitely for events and translates them into tagged events.
func (r *linuxReactor) Wait(events []Event) (int, error) {
	raw := r.raw
	if len(events) < len(raw) {
		raw = raw[:len(events)]
	}
	n, err := unix.EpollWait(r.epfd, raw, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	out := 0
	for i := 0; i < n; i++ {
		fd := raw[i].Fd
		if int(fd) == r.wakefd {
			r.drainWake()
			continue
		}
		tag, ok := r.tags[fd]
		if !ok {
			continue
		}
		events[out] = Event{Tag: tag, Kind: classify(raw[i].Events)}
		out++
	}
	return out, nil
}

// Wake writes to the eventfd so a blocked epoll_wait returns.
func (r *linuxReactor) Wake() error {
	var one [8]byte
	binary.NativeEndian.PutUint64(one[:], 1)
	if _, err := unix.Write(r.wakefd, one[:]); err != nil && err != unix.EAGAIN {
		return fmt.Errorf("wake: %w", err)
	}
	return nil
}

func (r *linuxReactor) drainWake() {
	var buf [8]byte
	_, _ = unix.Read(r.wakefd, buf[:])
}

// Close releases the epoll and eventfd descriptors.
func (r *linuxReactor) Close() error {
	unix.Close(r.wakefd)
	return unix.Close(r.epfd)
}

func classify(events uint32) Readiness {
	var k Readiness
	if events&unix.EPOLLERR != 0 {
		k |= Error
	}
	if events&unix.EPOLLHUP != 0 {
		k |= Hangup
	}
	if events&unix.EPOLLRDHUP != 0 {
		k |= PeerClosed
	}
	if events&unix.EPOLLIN != 0 {
		k |= Readable
	}
	if events&unix.EPOLLOUT != 0 {
		k |= Writable
	}
	return k
}
