// File: uring/abi.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw kernel ABI of the shared ring region: syscall numbers, setup/enter
// flags, and the fixed-layout structures the kernel fills during setup.
// Layouts must match the kernel byte for byte; sizes are asserted at
// package init and the field offsets are pinned by tests.

package uring

import (
	"fmt"
	"unsafe"
)

// Syscall numbers, identical on every 64-bit arch using the generic table.
const (
	sysSetup    = 425
	sysEnter    = 426
	sysRegister = 427
)

// Setup flags (io_uring_params.flags).
const (
	SetupIOPoll uint32 = 1 << iota
	SetupSQPoll
	SetupSQAff
	SetupCQSize
	SetupClamp
	SetupAttachWQ
	SetupRDisabled
	SetupSubmitAll
)

// SQ ring flags, written by the kernel into the shared flags word.
const (
	// SQNeedWakeup is set when the kernel-side polling thread has gone
	// idle; the producer must enter with EnterSQWakeup to restart it.
	SQNeedWakeup uint32 = 1 << iota
	SQCQOverflow
	SQTaskRun
)

// Enter flags (io_uring_enter).
const (
	EnterGetEvents uint32 = 1 << iota
	EnterSQWakeup
	EnterSQWait
	EnterExtArg
)

// Feature bits reported by the kernel after setup.
const (
	FeatSingleMmap uint32 = 1 << iota
	FeatNoDrop
	FeatSubmitStable
	FeatRWCurPos
	FeatCurPersonality
	FeatFastPoll
	FeatPoll32Bits
	FeatSQPollNonfixed
)

// Register opcodes (io_uring_register).
const (
	RegisterBuffers uint32 = iota
	UnregisterBuffers
	RegisterFiles
	UnregisterFiles
	RegisterEventFd
	UnregisterEventFd
)

// mmap offsets selecting which region of the ring fd is mapped.
const (
	offSQRing uint64 = 0
	offCQRing uint64 = 0x8000000
	offSQEs   uint64 = 0x10000000
)

// sqringOffsets locates the producer-visible SQ ring fields inside the
// mapped region. Filled by the kernel during setup.
type sqringOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Flags       uint32
	Dropped     uint32
	Array       uint32
	Resv1       uint32
	Resv2       uint64
}

// cqringOffsets locates the consumer-visible CQ ring fields.
type cqringOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Overflow    uint32
	Cqes        uint32
	Flags       uint32
	Resv1       uint32
	Resv2       uint64
}

// ringParams is struct io_uring_params: caller flags on input, kernel
// sizing, feature bits and ring offsets on output.
type ringParams struct {
	SQEntries    uint32
	CQEntries    uint32
	Flags        uint32
	SQThreadCPU  uint32
	SQThreadIdle uint32
	Features     uint32
	WQFd         uint32
	Resv         [3]uint32
	SQOff        sqringOffsets
	CQOff        cqringOffsets
}

func init() {
	if sz := unsafe.Sizeof(ringParams{}); sz != 120 {
		panic(fmt.Sprintf("io_uring params size mismatch: expected 120, got %d", sz))
	}
	if sz := unsafe.Sizeof(SQE{}); sz != 64 {
		panic(fmt.Sprintf("io_uring SQE size mismatch: expected 64, got %d", sz))
	}
	if sz := unsafe.Sizeof(CQE{}); sz != 16 {
		panic(fmt.Sprintf("io_uring CQE size mismatch: expected 16, got %d", sz))
	}
}
