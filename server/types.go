package server

import (
	"fmt"
	"net"
	"strconv"

	"github.com/momentics/hioload-proxy/pool"
	"github.com/momentics/hioload-proxy/reactor"
)

// Config holds all proxy-side configuration parameters.
type Config struct {
	Address        string // IPv4 bind address
	Port           int    // TCP bind port, 0 picks an ephemeral port
	MaxEvents      int    // readiness events fetched per reactor wait
	ReadBufferSize int    // scratch size for each socket read
	Pin            bool   // pin the event loop thread to CPU
	CPU            int    // logical CPU used when Pin is set
}

// DefaultConfig returns the stock listen address 127.0.0.1:8992.
func DefaultConfig() *Config {
	return &Config{
		Address:        "127.0.0.1",
		Port:           8992,
		MaxEvents:      reactor.DefaultMaxEvents,
		ReadBufferSize: pool.DefaultScratchSize,
	}
}

// ListenAddr returns address:port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// Validate checks the configuration before any socket is created.
func (c *Config) Validate() error {
	if ip := net.ParseIP(c.Address); ip == nil || ip.To4() == nil {
		return fmt.Errorf("config: address %q is not an IPv4 address", c.Address)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.MaxEvents <= 0 {
		return fmt.Errorf("config: max events must be positive, got %d", c.MaxEvents)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("config: read buffer size must be positive, got %d", c.ReadBufferSize)
	}
	if c.Pin && c.CPU < 0 {
		return fmt.Errorf("config: cpu %d is negative", c.CPU)
	}
	return nil
}
