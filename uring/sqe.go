// File: uring/sqe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Submission queue entry: the fixed-size request descriptor shared with
// the kernel, plus preparation helpers for the common operations.

package uring

import "unsafe"

// Operation codes understood by the kernel consumer.
const (
	OpNop uint8 = iota
	OpReadv
	OpWritev
	OpFsync
	OpReadFixed
	OpWriteFixed
	OpPollAdd
	OpPollRemove
	OpSyncFileRange
	OpSendmsg
	OpRecvmsg
	OpTimeout
	OpTimeoutRemove
	OpAccept
	OpAsyncCancel
	OpLinkTimeout
	OpConnect
	OpFallocate
	OpOpenat
	OpClose
	OpFilesUpdate
	OpStatx
	OpRead
	OpWrite
	OpFadvise
	OpMadvise
	OpSend
	OpRecv
)

// Per-entry flags.
const (
	SQEFixedFile uint8 = 1 << iota
	SQEIODrain
	SQEIOLink
	SQEIOHardlink
	SQEAsync
	SQEBufferSelect
)

// SQE is one 64-byte request descriptor in the shared descriptor array.
// The zero value is a valid no-op request against fd 0; NextSQE hands out
// zeroed entries so unset fields default predictably.
type SQE struct {
	Opcode      uint8
	Flags       uint8
	IoPrio      uint16
	Fd          int32
	Off         uint64
	Addr        uint64
	Len         uint32
	OpFlags     uint32
	UserData    uint64
	BufIndex    uint16
	Personality uint16
	SpliceFdIn  int32
	Addr3       uint64
	_           [1]uint64
}

// SetData tags the entry with an identifier echoed back in its completion.
func (e *SQE) SetData(data uint64) {
	e.UserData = data
}

func (e *SQE) prepareRW(opcode uint8, fd int, addr uintptr, length uint32, offset uint64) {
	e.Opcode = opcode
	e.Fd = int32(fd)
	e.Off = offset
	e.Addr = uint64(addr)
	e.Len = length
}

// PrepareNop prepares a no-op request, completing immediately with res 0.
func (e *SQE) PrepareNop() {
	e.prepareRW(OpNop, -1, 0, 0, 0)
}

// PrepareRead prepares a read of up to nbytes into buf at the given file offset.
func (e *SQE) PrepareRead(fd int, buf []byte, offset uint64) {
	e.prepareRW(OpRead, fd, uintptr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
}

// PrepareWrite prepares a write of buf at the given file offset.
func (e *SQE) PrepareWrite(fd int, buf []byte, offset uint64) {
	e.prepareRW(OpWrite, fd, uintptr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
}

// PrepareReadv prepares a vectored read. iovecs must point at an iovec
// array laid out per the host ABI and stay live until completion.
func (e *SQE) PrepareReadv(fd int, iovecs uintptr, nrVecs uint32, offset uint64) {
	e.prepareRW(OpReadv, fd, iovecs, nrVecs, offset)
}

// PrepareWritev prepares a vectored write.
func (e *SQE) PrepareWritev(fd int, iovecs uintptr, nrVecs uint32, offset uint64) {
	e.prepareRW(OpWritev, fd, iovecs, nrVecs, offset)
}

// PrepareReadFixed prepares a read into a buffer previously registered
// with RegisterBuffers; bufIndex selects the registered buffer.
func (e *SQE) PrepareReadFixed(fd int, buf []byte, offset uint64, bufIndex int) {
	e.prepareRW(OpReadFixed, fd, uintptr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
	e.BufIndex = uint16(bufIndex)
}

// PrepareWriteFixed prepares a write from a registered buffer.
func (e *SQE) PrepareWriteFixed(fd int, buf []byte, offset uint64, bufIndex int) {
	e.prepareRW(OpWriteFixed, fd, uintptr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
	e.BufIndex = uint16(bufIndex)
}

// PrepareFsync prepares a file sync. fsyncFlags selects full sync (0) or
// fdatasync semantics.
func (e *SQE) PrepareFsync(fd int, fsyncFlags uint32) {
	e.prepareRW(OpFsync, fd, 0, 0, 0)
	e.OpFlags = fsyncFlags
}

// PreparePollAdd prepares a one-shot poll for the given event mask.
func (e *SQE) PreparePollAdd(fd int, pollMask uint32) {
	e.prepareRW(OpPollAdd, fd, 0, 0, 0)
	e.OpFlags = pollMask
}

// PrepareClose prepares closing a descriptor through the ring.
func (e *SQE) PrepareClose(fd int) {
	e.prepareRW(OpClose, fd, 0, 0, 0)
}

// Timespec is the kernel timespec64 layout timeout operations take.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// PrepareTimeout prepares a timeout firing after ts, or earlier once
// count completions have arrived (0 waits for the clock alone). ts must
// stay live until the timeout completes.
func (e *SQE) PrepareTimeout(ts *Timespec, count uint64, timeoutFlags uint32) {
	e.prepareRW(OpTimeout, -1, uintptr(unsafe.Pointer(ts)), 1, count)
	e.OpFlags = timeoutFlags
}
