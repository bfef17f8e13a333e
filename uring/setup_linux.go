// File: uring/setup_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring creation: io_uring_setup, mapping of the shared ring region and
// the descriptor array, pointer wiring for both ring halves.

package uring

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-uring/api"
)

// New creates a ring, maps its shared region and wires both halves.
// A nil log falls back to the logrus standard logger; the ring never
// logs after setup.
func New(p Params, log *logrus.Logger) (*Ring, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if p.Entries == 0 || p.Entries&(p.Entries-1) != 0 {
		return nil, fmt.Errorf("ring entries %d not a power of two: %w", p.Entries, api.ErrInvalidArgument)
	}

	params := ringParams{
		Flags:        p.Flags,
		SQThreadCPU:  p.SQThreadCPU,
		SQThreadIdle: p.SQThreadIdle,
	}
	if p.CQEntries != 0 {
		params.Flags |= SetupCQSize
		params.CQEntries = p.CQEntries
	}

	fd, _, errno := unix.Syscall(sysSetup, uintptr(p.Entries), uintptr(unsafe.Pointer(&params)), 0)
	if errno == unix.ENOSYS {
		return nil, api.ErrNotSupported
	}
	if errno != 0 {
		return nil, fmt.Errorf("io_uring_setup: %w", errno)
	}

	r := &Ring{
		fd:              int(fd),
		flags:           params.Flags,
		features:        params.Features,
		gate:            syscallGate{},
		checkInvariants: p.CheckInvariants,
	}
	if err := r.mapRings(&params); err != nil {
		unix.Close(r.fd)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"fd":         r.fd,
		"sq_entries": params.SQEntries,
		"cq_entries": params.CQEntries,
		"sqpoll":     r.SQPollEnabled(),
		"features":   fmt.Sprintf("%#x", params.Features),
	}).Info("io_uring ring created")

	return r, nil
}

func (r *Ring) mapRings(params *ringParams) error {
	sqSize := int(params.SQOff.Array + params.SQEntries*uint32(unsafe.Sizeof(uint32(0))))
	cqSize := int(params.CQOff.Cqes + params.CQEntries*uint32(unsafe.Sizeof(CQE{})))

	singleMmap := params.Features&FeatSingleMmap != 0
	if singleMmap && cqSize > sqSize {
		sqSize = cqSize
	}

	sqMem, err := unix.Mmap(r.fd, int64(offSQRing), sqSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return fmt.Errorf("mmap sq ring: %w", err)
	}
	r.sqRingMem = sqMem

	cqMem := sqMem
	if !singleMmap {
		cqMem, err = unix.Mmap(r.fd, int64(offCQRing), cqSize,
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
		if err != nil {
			unix.Munmap(sqMem)
			r.sqRingMem = nil
			return fmt.Errorf("mmap cq ring: %w", err)
		}
		r.cqRingMem = cqMem
	}

	sqeSize := int(uintptr(params.SQEntries) * unsafe.Sizeof(SQE{}))
	sqeMem, err := unix.Mmap(r.fd, int64(offSQEs), sqeSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		if r.cqRingMem != nil {
			unix.Munmap(r.cqRingMem)
			r.cqRingMem = nil
		}
		unix.Munmap(sqMem)
		r.sqRingMem = nil
		return fmt.Errorf("mmap sqes: %w", err)
	}
	r.sqeMem = sqeMem

	sq := &r.sq
	sq.head = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.Head]))
	sq.tail = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.Tail]))
	sq.ringMask = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.RingMask]))
	sq.ringEntries = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.RingEntries]))
	sq.flags = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.Flags]))
	sq.dropped = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.Dropped]))
	sq.array = (*uint32)(unsafe.Pointer(&sqMem[params.SQOff.Array]))
	sq.sqes = (*SQE)(unsafe.Pointer(&sqeMem[0]))

	cq := &r.cq
	cq.head = (*uint32)(unsafe.Pointer(&cqMem[params.CQOff.Head]))
	cq.tail = (*uint32)(unsafe.Pointer(&cqMem[params.CQOff.Tail]))
	cq.ringMask = (*uint32)(unsafe.Pointer(&cqMem[params.CQOff.RingMask]))
	cq.ringEntries = (*uint32)(unsafe.Pointer(&cqMem[params.CQOff.RingEntries]))
	cq.overflow = (*uint32)(unsafe.Pointer(&cqMem[params.CQOff.Overflow]))
	cq.cqes = (*CQE)(unsafe.Pointer(&cqMem[params.CQOff.Cqes]))
	return nil
}

// release unmaps the shared region and closes the ring descriptor.
func (r *Ring) release() error {
	if r.sqeMem != nil {
		unix.Munmap(r.sqeMem)
		r.sqeMem = nil
	}
	if r.cqRingMem != nil {
		unix.Munmap(r.cqRingMem)
		r.cqRingMem = nil
	}
	if r.sqRingMem != nil {
		unix.Munmap(r.sqRingMem)
		r.sqRingMem = nil
	}
	if r.fd >= 0 {
		err := unix.Close(r.fd)
		r.fd = -1
		return err
	}
	return nil
}
