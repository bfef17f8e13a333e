// File: api/gate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel entry abstraction. The production implementation issues the
// io_uring_enter syscall; fakes script its outcomes for tests.

package api

// EnterGate hands control to the kernel side of a ring. toSubmit is the
// number of freshly published submission entries, minComplete the number
// of completions the call may block for (honored only when the caller
// sets the get-events flag). The returned count is the number of entries
// the kernel consumed.
//
// Implementations must return errno-compatible errors so callers can
// classify interruption and backpressure conditions.
type EnterGate interface {
	Enter(fd int, toSubmit, minComplete, flags uint32) (uint32, error)
}
