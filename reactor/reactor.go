// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness reactor interface and event classification.

package reactor

import (
	"strings"

	"github.com/momentics/hioload-proxy/api"
)

// DefaultMaxEvents bounds the number of events returned by one Wait.
const DefaultMaxEvents = 1024

// Readiness is the classified state of one ready descriptor. Several flags
// may be set at once; Failed takes precedence over everything else.
type Readiness uint8

const (
	Readable Readiness = 1 << iota
	Writable
	PeerClosed // peer shut down its write side
	Hangup
	Error
)

// Failed reports an error or hangup. A failed connection is torn down
// without input or output handling.
func (r Readiness) Failed() bool { return r&(Error|Hangup) != 0 }

// Readable reports input readiness.
func (r Readiness) Readable() bool { return r&Readable != 0 }

// Writable reports output readiness.
func (r Readiness) Writable() bool { return r&Writable != 0 }

// PeerClosed reports a half-close by the peer.
func (r Readiness) PeerClosed() bool { return r&PeerClosed != 0 }

func (r Readiness) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		bit  Readiness
		name string
	}{
		{Error, "error"}, {Hangup, "hangup"}, {PeerClosed, "rdhup"},
		{Readable, "readable"}, {Writable, "writable"},
	} {
		if r&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Event is one readiness notification for a registered descriptor.
type Event struct {
	Tag  api.ConnID // connection that registered the descriptor
	Kind Readiness
}

// Reactor multiplexes readiness of many descriptors.
type Reactor interface {
	// Register subscribes fd for read, write, hangup and error readiness for
	// its whole lifetime. tag is reported back with each event.
	Register(fd int, tag api.ConnID) error

	// Unregister removes fd from the interest set.
	Unregister(fd int) error

	// Wait blocks until at least one descriptor is ready and fills events.
	// An interrupted wait returns zero events and no error.
	Wait(events []Event) (int, error)

	// Wake makes a blocked Wait return.
	Wake() error

	// Close releases the reactor.
	Close() error
}
