// Package transport
// Author: momentics <momentics@gmail.com>
//
// Platform-independent facade: host resolution and backend dialing.

package transport

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/momentics/hioload-proxy/api"
)

// DefaultBackendPort is used when a host token carries no explicit port.
const DefaultBackendPort = 80

// Resolver maps a host token from a request to a connectable IPv4 address.
type Resolver interface {
	Resolve(ctx context.Context, host string) (netip.AddrPort, error)
}

// NetResolver resolves through the system resolver.
type NetResolver struct {
	Resolver *net.Resolver // nil means net.DefaultResolver
}

// Resolve accepts "name" or "name:port" and returns the first IPv4 address.
func (r NetResolver) Resolve(ctx context.Context, host string) (netip.AddrPort, error) {
	name, port, err := splitHostPort(host)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if ip, err := netip.ParseAddr(name); err == nil {
		if !ip.Unmap().Is4() {
			return netip.AddrPort{}, fmt.Errorf("resolve %s: not an IPv4 address", host)
		}
		return netip.AddrPortFrom(ip.Unmap(), port), nil
	}
	res := r.Resolver
	if res == nil {
		res = net.DefaultResolver
	}
	addrs, err := res.LookupNetIP(ctx, "ip4", name)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("resolve %s: %w", name, err)
	}
	if len(addrs) == 0 {
		return netip.AddrPort{}, fmt.Errorf("resolve %s: no IPv4 address", name)
	}
	return netip.AddrPortFrom(addrs[0].Unmap(), port), nil
}

func splitHostPort(host string) (string, uint16, error) {
	name, portStr, err := net.SplitHostPort(host)
	if err != nil {
		// no port component
		return host, DefaultBackendPort, nil
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return "", 0, fmt.Errorf("resolve %s: bad port %q", host, portStr)
	}
	return name, uint16(port), nil
}

// Dialer opens non-blocking backend sockets for host tokens.
type Dialer struct {
	Resolver Resolver
}

// NewDialer returns a Dialer using the system resolver.
func NewDialer() *Dialer {
	return &Dialer{Resolver: NetResolver{}}
}

// Dial resolves host and starts a non-blocking connect. Completion (or
// failure) of the connect is observed later through the reactor.
func (d *Dialer) Dial(ctx context.Context, host string) (api.Socket, error) {
	addr, err := d.Resolver.Resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	s, err := Connect(addr)
	if err != nil {
		return nil, err
	}
	return s, nil
}
