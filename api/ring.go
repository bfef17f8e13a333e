// Package api
// Author: momentics <momentics@gmail.com>
//
// Producer-side submission contract of a kernel shared-memory ring.

package api

// Submitter is the single-producer submission surface of a ring.
// All methods must be called from one goroutine at a time; the kernel is
// the only other actor and it sees the ring solely through shared memory.
type Submitter interface {
	// SQEntries returns the ring capacity.
	SQEntries() uint32

	// SQSpaceLeft returns how many more entries can be allocated before
	// a submit is required.
	SQSpaceLeft() uint32

	// SQPending returns the number of allocated entries not yet
	// published to the kernel.
	SQPending() uint32

	// Submit publishes pending entries and notifies the kernel if the
	// ring requires it. Returns the number of entries the kernel now
	// knows about.
	Submit() (uint32, error)

	// SubmitAndWait is Submit plus blocking for minComplete completions.
	SubmitAndWait(minComplete uint32) (uint32, error)
}
