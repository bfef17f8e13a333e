// File: pool/iovec_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "golang.org/x/sys/unix"

// Iovecs describes every slot for kernel buffer registration. The
// returned vectors reference the pool's slab directly, so the pool
// must outlive the registration.
func (p *FixedBufferPool) Iovecs() []unix.Iovec {
	iovs := make([]unix.Iovec, len(p.bufs))
	for i := range p.bufs {
		iovs[i].Base = &p.bufs[i].data[0]
		iovs[i].SetLen(p.bufSize)
	}
	return iovs
}
