// File: pool/fixedpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel-backed free list over a single slab. The slab stays alive
// and pinned-in-place for the lifetime of the pool, which is what
// buffer registration requires.

package pool

import (
	"fmt"

	"github.com/momentics/hioload-uring/api"
)

// Buffer is one fixed slot of a pool. Index is the registration slot
// to reference in fixed read and write submissions.
type Buffer struct {
	Index uint16
	data  []byte
}

// Bytes returns the slot's backing memory.
func (b *Buffer) Bytes() []byte { return b.data }

// FixedBufferPool hands out equally sized buffers from a contiguous
// slab. Acquire and Release are safe for concurrent use.
type FixedBufferPool struct {
	slab    []byte
	bufSize int
	bufs    []Buffer
	free    chan uint16
}

// NewFixedBufferPool allocates count buffers of bufSize bytes each.
func NewFixedBufferPool(count int, bufSize int) (*FixedBufferPool, error) {
	if count <= 0 || count > 1<<16 {
		return nil, fmt.Errorf("%w: buffer count %d out of range", api.ErrInvalidArgument, count)
	}
	if bufSize <= 0 {
		return nil, fmt.Errorf("%w: buffer size %d", api.ErrInvalidArgument, bufSize)
	}
	p := &FixedBufferPool{
		slab:    make([]byte, count*bufSize),
		bufSize: bufSize,
		bufs:    make([]Buffer, count),
		free:    make(chan uint16, count),
	}
	for i := 0; i < count; i++ {
		p.bufs[i] = Buffer{
			Index: uint16(i),
			data:  p.slab[i*bufSize : (i+1)*bufSize : (i+1)*bufSize],
		}
		p.free <- uint16(i)
	}
	return p, nil
}

// Slot returns the buffer at a registration index regardless of
// acquisition state. Meant for completion handlers that know the slot
// from a submission tag.
func (p *FixedBufferPool) Slot(idx uint16) *Buffer {
	return &p.bufs[idx]
}

// Count returns the number of buffers in the pool.
func (p *FixedBufferPool) Count() int { return len(p.bufs) }

// BufSize returns the size of each buffer.
func (p *FixedBufferPool) BufSize() int { return p.bufSize }

// Acquire returns a free buffer, or nil when every slot is in flight.
// Callers treat nil as backpressure and retry after harvesting.
func (p *FixedBufferPool) Acquire() *Buffer {
	select {
	case idx := <-p.free:
		return &p.bufs[idx]
	default:
		return nil
	}
}

// AcquireWait blocks until a buffer frees up.
func (p *FixedBufferPool) AcquireWait() *Buffer {
	idx := <-p.free
	return &p.bufs[idx]
}

// Release returns a buffer to the pool. Releasing a buffer twice is a
// caller bug and will eventually deadlock Acquire bookkeeping, same as
// any double free.
func (p *FixedBufferPool) Release(b *Buffer) {
	p.free <- b.Index
}

// Available returns how many buffers are currently free.
func (p *FixedBufferPool) Available() int { return len(p.free) }
