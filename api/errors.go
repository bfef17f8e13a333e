// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-uring.

package api

import (
	"fmt"
	"syscall"
)

// Common errors used across the library.
var (
	// ErrBackpressure reports that the kernel cannot accept more
	// submissions until outstanding completions are drained. It is a
	// normal flow-control signal, not a failure of the ring.
	ErrBackpressure = fmt.Errorf("submission backpressure: drain completions and retry")

	ErrRingClosed      = fmt.Errorf("ring is closed")
	ErrNotSupported    = fmt.Errorf("io_uring not supported")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// EnterError reports an unrecoverable failure of the ring enter call.
// Interruption and backpressure conditions never surface as EnterError;
// they are retried or mapped to ErrBackpressure before this is built.
type EnterError struct {
	Errno syscall.Errno
}

// Error implements the error interface.
func (e *EnterError) Error() string {
	return fmt.Sprintf("ring enter failed: %v", e.Errno)
}

// Unwrap exposes the original errno for errors.Is/As matching.
func (e *EnterError) Unwrap() error {
	return e.Errno
}
