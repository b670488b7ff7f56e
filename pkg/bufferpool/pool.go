// Package bufferpool reuses fixed-size byte buffers for RTCP compound
// packet marshaling, avoiding an allocation on every timer tick.
package bufferpool

import "sync"

// Pool is a pool of byte slices of a single fixed capacity.
type Pool struct {
	pool sync.Pool
	size int
}

// New creates a Pool whose buffers have the given capacity.
func New(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, 0, size)
			},
		},
	}
}

// Get returns a zero-length buffer with capacity for size bytes.
func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)[:0]
}

// Put returns a buffer to the pool. Buffers whose capacity has grown past
// size are dropped rather than pooled, so one oversized packet doesn't
// permanently inflate the pool's footprint.
func (p *Pool) Put(b []byte) {
	if cap(b) == p.size {
		p.pool.Put(b)
	}
}
