// File: uring/enter_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Production kernel entry gate: the io_uring_enter syscall.

package uring

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-uring/api"
)

// syscallGate enters the kernel through io_uring_enter.
type syscallGate struct{}

var _ api.EnterGate = syscallGate{}

// Enter hands toSubmit published entries to the kernel and, when flags
// carries EnterGetEvents, blocks for minComplete completions. The signal
// mask argument is always nil.
func (syscallGate) Enter(fd int, toSubmit, minComplete, flags uint32) (uint32, error) {
	n, _, errno := unix.Syscall6(sysEnter,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags),
		0, 0,
	)
	if errno != 0 {
		return 0, errno
	}
	return uint32(n), nil
}
