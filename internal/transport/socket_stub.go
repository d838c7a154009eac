//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
//
// Sockets are only implemented for Linux.

package transport

import (
	"net/netip"

	"github.com/momentics/hioload-proxy/api"
)

// Socket is unavailable on this platform.
type Socket struct{}

func Connect(addr netip.AddrPort) (*Socket, error)     { return nil, api.ErrNotSupported }
func Listen(address string, port int) (*Socket, error) { return nil, api.ErrNotSupported }
func (s *Socket) Fd() int                              { return -1 }
func (s *Socket) Accept() (*Socket, error)             { return nil, api.ErrNotSupported }
func (s *Socket) AcceptSocket() (api.Socket, error)    { return nil, api.ErrNotSupported }
func (s *Socket) Recv(buf []byte) (int, error)         { return 0, api.ErrNotSupported }
func (s *Socket) Send(buf []byte) (int, error)         { return 0, api.ErrNotSupported }
func (s *Socket) Close() error                         { return nil }
func (s *Socket) LocalAddr() (netip.AddrPort, error)   { return netip.AddrPort{}, api.ErrNotSupported }
func SocketError(fd int) error                         { return api.ErrNotSupported }
