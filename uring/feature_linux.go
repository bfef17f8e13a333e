// File: uring/feature_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel capability probe for runtime transport selection.

package uring

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// HasIoUringSupport probes the running kernel by setting up a minimal
// ring and tearing it straight down.
func HasIoUringSupport() bool {
	var params ringParams
	fd, _, errno := unix.Syscall(sysSetup, 1, uintptr(unsafe.Pointer(&params)), 0)
	if errno != 0 {
		return false
	}
	unix.Close(int(fd))
	return true
}
