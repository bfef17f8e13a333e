// File: uring/sqring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Submission-side ring manager. Single producer; the kernel consumes
// concurrently through shared memory. Counters are 32-bit and wrap by
// design, so every comparison is wrap-aware subtraction and every slot
// index is counter & ringMask.

package uring

import (
	"errors"
	"fmt"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/momentics/hioload-uring/api"
)

// submissionQueue mirrors the producer half of the shared SQ ring.
// head, tail, flags and dropped point into memory the kernel mutates
// under the single-writer-per-field discipline: the producer owns tail,
// the array and the descriptor slots, the kernel owns the rest.
//
// sqeHead and sqeTail are producer-local shadows, never visible to the
// kernel. sqeTail counts entries handed to the caller, sqeHead counts
// entries already written through the indirection array. Both only
// advance, wrapping mod 2^32 together with the shared counters.
type submissionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	flags       *uint32
	dropped     *uint32
	array       *uint32
	sqes        *SQE

	sqeHead uint32
	sqeTail uint32
}

func (sq *submissionQueue) arrayAt(i uint32) *uint32 {
	return (*uint32)(unsafe.Add(unsafe.Pointer(sq.array), uintptr(i)*unsafe.Sizeof(uint32(0))))
}

func (sq *submissionQueue) sqeAt(i uint32) *SQE {
	return (*SQE)(unsafe.Add(unsafe.Pointer(sq.sqes), uintptr(i)*unsafe.Sizeof(SQE{})))
}

// kernelHead returns the consumer counter, with an acquiring read when a
// kernel-side poller may be advancing it without any syscall from here.
func (r *Ring) kernelHead() uint32 {
	if r.flags&SetupSQPoll != 0 {
		return atomic.LoadUint32(r.sq.head)
	}
	return *r.sq.head
}

// SQEntries returns the ring capacity, read from shared memory.
func (r *Ring) SQEntries() uint32 {
	return *r.sq.ringEntries
}

// SQSpaceLeft returns how many more entries can be allocated before the
// kernel must retire some: capacity minus everything it has not consumed
// yet, published or not.
func (r *Ring) SQSpaceLeft() uint32 {
	return *r.sq.ringEntries - (r.sq.sqeTail - r.kernelHead())
}

// SQPending returns the number of allocated entries not yet published to
// the kernel.
func (r *Ring) SQPending() uint32 {
	return r.sq.sqeTail - r.sq.sqeHead
}

// NextSQE returns the next free submission slot, zero-filled, or nil when
// the ring is full. A nil result is not an error; the caller must submit
// before more slots can come free. The caller must fully populate the
// returned entry before the next Submit; contents are not validated here.
func (r *Ring) NextSQE() *SQE {
	sq := &r.sq
	head := r.kernelHead()
	next := sq.sqeTail + 1
	if next-head > *sq.ringEntries {
		return nil
	}
	sqe := sq.sqeAt(sq.sqeTail & *sq.ringMask)
	sq.sqeTail = next
	*sqe = SQE{}
	return sqe
}

// flushSQ publishes allocated entries. Each pending slot gets an
// indirection entry mapping its ring position to its descriptor index;
// the shared tail is then bumped once per call with a releasing store, so
// the kernel never observes the new tail ahead of the indirection writes.
// Returns the kernel-visible backlog after publication.
func (r *Ring) flushSQ() uint32 {
	sq := &r.sq
	if sq.sqeHead == sq.sqeTail {
		return *sq.tail - r.kernelHead()
	}
	mask := *sq.ringMask
	ktail := *sq.tail
	for toSubmit := sq.sqeTail - sq.sqeHead; toSubmit > 0; toSubmit-- {
		*sq.arrayAt(ktail & mask) = sq.sqeHead & mask
		ktail++
		sq.sqeHead++
	}
	atomic.StoreUint32(sq.tail, ktail)
	return ktail - r.kernelHead()
}

// sqNeedsEnter reports whether publication requires the enter syscall.
// Without kernel-side polling it always does. With polling the kernel
// drains the ring on its own; only an idle poller, signalled through the
// shared flags word, forces an enter carrying the wakeup flag.
func (r *Ring) sqNeedsEnter(enterFlags *uint32) bool {
	if r.flags&SetupSQPoll == 0 {
		return true
	}
	if atomic.LoadUint32(r.sq.flags)&SQNeedWakeup != 0 {
		*enterFlags |= EnterSQWakeup
		return true
	}
	return false
}

// enterOutcome classifies a failed enter call.
type enterOutcome int

const (
	enterRetry        enterOutcome = iota // interrupted by a signal, repeat
	enterBackpressure                     // completion backlog full, surface
	enterFatal
)

func classifyEnterErr(err error) enterOutcome {
	switch {
	case errors.Is(err, syscall.EINTR):
		return enterRetry
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EBUSY):
		return enterBackpressure
	default:
		return enterFatal
	}
}

// Submit publishes pending entries and, when the ring requires it, makes
// one enter call. Equivalent to SubmitAndWait(0).
func (r *Ring) Submit() (uint32, error) {
	return r.SubmitAndWait(0)
}

// SubmitAndWait publishes pending entries and blocks until minComplete
// completions are available; minComplete 0 never blocks.
//
// Outcomes: (n, nil) on success, where n is the count the kernel accepted
// or, when the enter call was skipped, the published backlog it already
// sees; (0, api.ErrBackpressure) when the kernel reports EAGAIN or EBUSY
// -- no entries are lost and resubmitting after draining completions
// succeeds; (0, *api.EnterError) on any other errno. Signal interruption
// is retried internally and never observed by the caller.
func (r *Ring) SubmitAndWait(minComplete uint32) (uint32, error) {
	toSubmit := r.flushSQ()
	r.stats.submits.Add(1)

	var enterFlags uint32
	if !r.sqNeedsEnter(&enterFlags) {
		r.checkDropped()
		return toSubmit, nil
	}
	if enterFlags&EnterSQWakeup != 0 {
		r.stats.wakeups.Add(1)
	}
	if minComplete > 0 {
		enterFlags |= EnterGetEvents
	}

	for {
		r.stats.enters.Add(1)
		n, err := r.gate.Enter(r.fd, toSubmit, minComplete, enterFlags)
		if err == nil {
			r.checkDropped()
			r.stats.submitted.Add(uint64(n))
			return n, nil
		}
		switch classifyEnterErr(err) {
		case enterRetry:
			r.stats.retries.Add(1)
			continue
		case enterBackpressure:
			r.stats.backpressure.Add(1)
			return 0, api.ErrBackpressure
		default:
			return 0, &api.EnterError{Errno: asErrno(err)}
		}
	}
}

func asErrno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}

// checkDropped validates that the kernel rejected no published entry.
// A nonzero dropped counter means a malformed descriptor reached the
// ring, a producer bug rather than a transient condition.
func (r *Ring) checkDropped() {
	if !r.checkInvariants {
		return
	}
	if n := atomic.LoadUint32(r.sq.dropped); n != 0 {
		panic(fmt.Sprintf("uring: kernel dropped %d submission entries", n))
	}
}
