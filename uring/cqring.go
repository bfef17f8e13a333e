// File: uring/cqring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion-side harvest. Here the roles flip: the kernel produces,
// this side consumes, so the tail is read with acquire ordering and the
// head bump is a releasing store.

package uring

import (
	"sync/atomic"
	"unsafe"

	"github.com/momentics/hioload-uring/api"
)

// CQE is one 16-byte completion record. Res carries the operation result
// (negated errno on failure), UserData echoes the tag set on the SQE.
type CQE struct {
	UserData uint64
	Res      int32
	Flags    uint32
}

type completionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	overflow    *uint32
	cqes        *CQE
}

func (cq *completionQueue) cqeAt(i uint32) *CQE {
	return (*CQE)(unsafe.Add(unsafe.Pointer(cq.cqes), uintptr(i)*unsafe.Sizeof(CQE{})))
}

// CQEntries returns the completion ring capacity.
func (r *Ring) CQEntries() uint32 {
	return *r.cq.ringEntries
}

// CQPending returns the number of completions ready to harvest.
func (r *Ring) CQPending() uint32 {
	return atomic.LoadUint32(r.cq.tail) - *r.cq.head
}

// CQOverflow returns the count of completions the kernel could not post
// because the ring was full.
func (r *Ring) CQOverflow() uint32 {
	return atomic.LoadUint32(r.cq.overflow)
}

// PeekCQE returns the oldest unharvested completion without consuming
// it, or nil when none is available. The returned entry points into
// shared memory and is valid only until the matching AdvanceCQ.
func (r *Ring) PeekCQE() *CQE {
	cq := &r.cq
	head := *cq.head
	if head == atomic.LoadUint32(cq.tail) {
		return nil
	}
	return cq.cqeAt(head & *cq.ringMask)
}

// AdvanceCQ consumes n harvested completions. The kernel may overwrite
// the freed slots once it observes the new head.
func (r *Ring) AdvanceCQ(n uint32) {
	if n == 0 {
		return
	}
	atomic.StoreUint32(r.cq.head, *r.cq.head+n)
}

// WaitCQE blocks until at least one completion is available, entering
// the kernel with the get-events flag whenever the queue is empty.
// Interruption is retried the same way SubmitAndWait retries it.
func (r *Ring) WaitCQE() (*CQE, error) {
	for {
		if cqe := r.PeekCQE(); cqe != nil {
			return cqe, nil
		}
		r.stats.enters.Add(1)
		if _, err := r.gate.Enter(r.fd, 0, 1, EnterGetEvents); err != nil {
			switch classifyEnterErr(err) {
			case enterRetry:
				r.stats.retries.Add(1)
			case enterBackpressure:
				r.stats.backpressure.Add(1)
				return nil, api.ErrBackpressure
			default:
				return nil, &api.EnterError{Errno: asErrno(err)}
			}
		}
	}
}
