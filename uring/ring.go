// File: uring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring object: file descriptor, mapped regions, submission and
// completion halves, and the kernel entry gate.

package uring

import (
	"sync/atomic"

	"github.com/momentics/hioload-uring/api"
)

// Compile-time contract compliance.
var _ api.Submitter = (*Ring)(nil)

// Params configures ring creation.
type Params struct {
	// Entries is the submission ring capacity; must be a power of two.
	Entries uint32

	// Flags are Setup* bits. SetupSQPoll enables the kernel-side
	// polling thread; SetupClamp is usually wanted alongside it.
	Flags uint32

	// SQThreadCPU pins the kernel poller when SetupSQAff is set.
	SQThreadCPU uint32

	// SQThreadIdle is how long, in milliseconds, the kernel poller
	// spins empty before sleeping and raising SQNeedWakeup.
	SQThreadIdle uint32

	// CQEntries overrides the completion ring capacity when SetupCQSize
	// is set; 0 leaves the kernel default of twice the SQ size.
	CQEntries uint32

	// CheckInvariants enables the dropped-counter check after each
	// submit. Meant for tests and debug builds; the check panics,
	// because a nonzero counter is a producer bug.
	CheckInvariants bool
}

// ringStats are slow-path counters, readable from debug probes while the
// producer goroutine keeps submitting.
type ringStats struct {
	submits      atomic.Uint64
	enters       atomic.Uint64
	wakeups      atomic.Uint64
	retries      atomic.Uint64
	backpressure atomic.Uint64
	submitted    atomic.Uint64
}

// Ring is one io_uring instance. Submission-side methods are single
// producer; PeekCQE/AdvanceCQ are single consumer. The kernel is the
// only other actor and sees the ring exclusively through shared memory.
type Ring struct {
	fd       int
	flags    uint32
	features uint32

	sq submissionQueue
	cq completionQueue

	gate            api.EnterGate
	checkInvariants bool
	closed          bool

	stats ringStats

	// Mapped regions; nil for rings built over caller-provided memory.
	sqRingMem []byte
	cqRingMem []byte
	sqeMem    []byte
}

// Fd returns the ring file descriptor.
func (r *Ring) Fd() int {
	return r.fd
}

// Flags returns the setup flags the ring was created with.
func (r *Ring) Flags() uint32 {
	return r.flags
}

// Features returns the kernel feature bits reported at setup.
func (r *Ring) Features() uint32 {
	return r.features
}

// SQPollEnabled reports whether a kernel-side polling thread serves the
// submission ring.
func (r *Ring) SQPollEnabled() bool {
	return r.flags&SetupSQPoll != 0
}

// Close releases the mapped regions and the ring descriptor. Idempotent.
func (r *Ring) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.release()
}

// Stats returns a snapshot for debug probes. Queue depths are taken
// without stopping the producer, so they may lag by a few entries when
// read concurrently.
func (r *Ring) Stats() map[string]any {
	return map[string]any{
		"sq_entries":    r.SQEntries(),
		"sq_pending":    r.SQPending(),
		"sq_space_left": r.SQSpaceLeft(),
		"cq_pending":    r.CQPending(),
		"cq_overflow":   r.CQOverflow(),
		"submits":       r.stats.submits.Load(),
		"enters":        r.stats.enters.Load(),
		"wakeups":       r.stats.wakeups.Load(),
		"eintr_retries": r.stats.retries.Load(),
		"backpressure":  r.stats.backpressure.Load(),
		"submitted":     r.stats.submitted.Load(),
	}
}
