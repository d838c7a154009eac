//go:build linux
// +build linux

// internal/transport/socket_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux non-blocking stream sockets over golang.org/x/sys/unix.

package transport

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/momentics/hioload-proxy/api"
	"golang.org/x/sys/unix"
)

const listenBacklog = 4096

// Socket owns one non-blocking AF_INET stream descriptor.
type Socket struct {
	fd int
}

var _ api.Socket = (*Socket)(nil)

// NewSocket creates a non-blocking, close-on-exec TCP socket.
func NewSocket() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	return &Socket{fd: fd}, nil
}

// Connect creates a socket and starts a non-blocking connect to addr.
func Connect(addr netip.AddrPort) (*Socket, error) {
	s, err := NewSocket()
	if err != nil {
		return nil, err
	}
	_ = unix.SetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	if err := unix.Connect(s.fd, sockaddr(addr)); err != nil && err != unix.EINPROGRESS {
		s.Close()
		return nil, &api.OpError{Op: "connect " + addr.String(), Fd: -1, Err: err}
	}
	return s, nil
}

// Listen binds a listening socket on address:port.
func Listen(address string, port int) (*Socket, error) {
	ip, err := netip.ParseAddr(address)
	if err != nil || !ip.Unmap().Is4() {
		return nil, fmt.Errorf("listen: bad IPv4 address %q", address)
	}
	if port < 0 || port > 0xffff {
		return nil, fmt.Errorf("listen: bad port %d", port)
	}
	s, err := NewSocket()
	if err != nil {
		return nil, err
	}
	if err := unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		s.Close()
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	addr := netip.AddrPortFrom(ip.Unmap(), uint16(port))
	if err := unix.Bind(s.fd, sockaddr(addr)); err != nil {
		s.Close()
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	if err := unix.Listen(s.fd, listenBacklog); err != nil {
		s.Close()
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return s, nil
}

// Fd returns the descriptor, -1 after Close.
func (s *Socket) Fd() int { return s.fd }

// Accept returns the next pending connection, or nil when none is pending.
func (s *Socket) Accept() (*Socket, error) {
	for {
		nfd, _, err := unix.Accept4(s.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		switch err {
		case nil:
			return &Socket{fd: nfd}, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN, unix.ECONNABORTED:
			return nil, nil
		default:
			return nil, &api.OpError{Op: "accept", Fd: s.fd, Err: err}
		}
	}
}

// AcceptSocket is Accept returning the api.Socket contract; the result is
// a nil interface when no connection is pending.
func (s *Socket) AcceptSocket() (api.Socket, error) {
	ns, err := s.Accept()
	if ns == nil {
		return nil, err
	}
	return ns, nil
}

// Recv reads into buf. Zero bytes read is reported as io.EOF.
func (s *Socket) Recv(buf []byte) (int, error) {
	if s.fd < 0 {
		return 0, api.ErrSocketClosed
	}
	for {
		n, _, err := unix.Recvfrom(s.fd, buf, 0)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, api.ErrWouldBlock
		case err != nil:
			return 0, &api.OpError{Op: "recv", Fd: s.fd, Err: err}
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Send writes buf without raising SIGPIPE on a reset peer.
func (s *Socket) Send(buf []byte) (int, error) {
	if s.fd < 0 {
		return 0, api.ErrSocketClosed
	}
	for {
		n, err := unix.SendmsgN(s.fd, buf, nil, nil, unix.MSG_NOSIGNAL)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, &api.OpError{Op: "send", Fd: s.fd, Err: err}
		}
	}
}

// Close releases the descriptor.
func (s *Socket) Close() error {
	if s.fd < 0 {
		return nil
	}
	err := unix.Close(s.fd)
	s.fd = -1
	return err
}

// LocalAddr returns the bound address of the socket.
func (s *Socket) LocalAddr() (netip.AddrPort, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("getsockname: %w", err)
	}
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		return netip.AddrPortFrom(netip.AddrFrom4(in4.Addr), uint16(in4.Port)), nil
	}
	return netip.AddrPort{}, fmt.Errorf("getsockname: unexpected %T", sa)
}

// SocketError returns the pending SO_ERROR of fd, used to describe
// error readiness events.
func SocketError(fd int) error {
	code, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if code == 0 {
		return nil
	}
	return unix.Errno(code)
}

func sockaddr(addr netip.AddrPort) *unix.SockaddrInet4 {
	return &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
}
