// Package pool provides reusable byte buffers for UDP datagram I/O.
package pool

import "sync"

// BufferPool hands out fixed-size byte buffers for reading datagrams,
// backed by sync.Pool so a steady-state receive loop stops allocating.
// Buffers travel as *[]byte so a Put doesn't re-box the slice header.
type BufferPool struct {
	p sync.Pool
}

// NewBuffers returns a pool whose buffers are size bytes long.
func NewBuffers(size int) *BufferPool {
	return &BufferPool{
		p: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

// Get retrieves a buffer from the pool, allocating a fresh one if the pool
// is empty. The buffer's contents are undefined; callers must only trust
// the bytes they themselves read into it.
func (p *BufferPool) Get() *[]byte {
	return p.p.Get().(*[]byte)
}

// Put returns buf to the pool for reuse.
func (p *BufferPool) Put(buf *[]byte) {
	p.p.Put(buf)
}
