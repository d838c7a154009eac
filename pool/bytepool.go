// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"sync"

	"github.com/momentics/hioload-proxy/api"
)

// DefaultScratchSize is the read scratch size used by AsyncReader.
const DefaultScratchSize = 4096

// BytePool hands out fixed-size scratch buffers.
type BytePool struct {
	objs sync.Pool // *[]byte
	size int
}

var _ api.BufferPool = (*BytePool)(nil)

// NewBytePool returns a pool of size-byte buffers. size <= 0 selects
// DefaultScratchSize.
func NewBytePool(size int) *BytePool {
	if size <= 0 {
		size = DefaultScratchSize
	}
	p := &BytePool{size: size}
	p.objs.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

// Size returns the length of every buffer handed out.
func (b *BytePool) Size() int { return b.size }

// Get returns a scratch buffer of Size bytes.
func (b *BytePool) Get() []byte {
	return (*b.objs.Get().(*[]byte))[:b.size]
}

// Put returns a buffer; foreign sizes are dropped.
func (b *BytePool) Put(buf []byte) {
	if cap(buf) < b.size {
		return
	}
	buf = buf[:b.size]
	b.objs.Put(&buf)
}

var defaultPool = NewBytePool(DefaultScratchSize)

// Default returns the process-wide scratch pool.
func Default() *BytePool { return defaultPool }
