// File: uring/register_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer and file registration: pins resources with the kernel so fixed
// opcodes can skip per-operation lookup and mapping.

package uring

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-uring/api"
)

func (r *Ring) register(opcode uint32, arg unsafe.Pointer, nrArgs uint32) error {
	_, _, errno := unix.Syscall6(sysRegister,
		uintptr(r.fd),
		uintptr(opcode),
		uintptr(arg),
		uintptr(nrArgs),
		0, 0,
	)
	if errno != 0 {
		return fmt.Errorf("io_uring_register op %d: %w", opcode, errno)
	}
	return nil
}

// RegisterBuffers pins the given iovecs for fixed-buffer reads and
// writes. Buffer i backs BufIndex i until unregistered.
func (r *Ring) RegisterBuffers(iovecs []unix.Iovec) error {
	if len(iovecs) == 0 {
		return fmt.Errorf("register buffers: %w", api.ErrInvalidArgument)
	}
	return r.register(RegisterBuffers, unsafe.Pointer(&iovecs[0]), uint32(len(iovecs)))
}

// UnregisterBuffers releases all registered buffers.
func (r *Ring) UnregisterBuffers() error {
	return r.register(UnregisterBuffers, nil, 0)
}

// RegisterFiles pins a descriptor table for SQEFixedFile operations.
// An entry of -1 leaves a sparse slot.
func (r *Ring) RegisterFiles(fds []int32) error {
	if len(fds) == 0 {
		return fmt.Errorf("register files: %w", api.ErrInvalidArgument)
	}
	return r.register(RegisterFiles, unsafe.Pointer(&fds[0]), uint32(len(fds)))
}

// UnregisterFiles releases the registered descriptor table.
func (r *Ring) UnregisterFiles() error {
	return r.register(UnregisterFiles, nil, 0)
}
