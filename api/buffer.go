// Package api
// Author: momentics
//
// Byte buffers exchanged between readers, framers, handlers and writers.
//
// A Buffer is immutable once it has been handed to a framer, a handler or an
// output queue. Several components may hold the same Buffer transiently; only
// the framer that accumulates partial input owns a mutable one.

package api

// Buffer is a byte sequence with shared, read-only-after-handoff ownership.
type Buffer []byte

// Clone returns a private copy of b.
func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// BufferPool hands out fixed-size scratch buffers for socket reads.
type BufferPool interface {
	// Get returns a scratch buffer of the pool's size.
	Get() []byte

	// Put returns a scratch buffer; it must not be used afterwards.
	Put(b []byte)
}
