// File: uring/helpers_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Heap-backed stand-in for the kernel's shared ring region, so the
// submission protocol can run against a scripted kernel on any OS.

package uring

import (
	"sync/atomic"
	"testing"

	"github.com/momentics/hioload-uring/api"
	"github.com/momentics/hioload-uring/fake"
)

// testRegion owns the memory a real kernel would map into the process.
// Tests mutate the kernel-owned fields directly to simulate consumption,
// poller state and rejection.
type testRegion struct {
	sqHead        uint32
	sqTail        uint32
	sqRingMask    uint32
	sqRingEntries uint32
	sqFlags       uint32
	sqDropped     uint32
	array         []uint32
	sqes          []SQE

	cqHead        uint32
	cqTail        uint32
	cqRingMask    uint32
	cqRingEntries uint32
	cqOverflow    uint32
	cqes          []CQE
}

func newTestRing(t *testing.T, entries uint32, flags uint32, gate api.EnterGate) (*Ring, *testRegion) {
	t.Helper()
	if entries == 0 || entries&(entries-1) != 0 {
		t.Fatalf("entries %d must be a power of two", entries)
	}
	reg := &testRegion{
		sqRingMask:    entries - 1,
		sqRingEntries: entries,
		array:         make([]uint32, entries),
		sqes:          make([]SQE, entries),
		cqRingMask:    2*entries - 1,
		cqRingEntries: 2 * entries,
		cqes:          make([]CQE, 2*entries),
	}
	r := &Ring{
		fd:              -1,
		flags:           flags,
		gate:            gate,
		checkInvariants: true,
	}
	r.sq = submissionQueue{
		head:        &reg.sqHead,
		tail:        &reg.sqTail,
		ringMask:    &reg.sqRingMask,
		ringEntries: &reg.sqRingEntries,
		flags:       &reg.sqFlags,
		dropped:     &reg.sqDropped,
		array:       &reg.array[0],
		sqes:        &reg.sqes[0],
	}
	r.cq = completionQueue{
		head:        &reg.cqHead,
		tail:        &reg.cqTail,
		ringMask:    &reg.cqRingMask,
		ringEntries: &reg.cqRingEntries,
		overflow:    &reg.cqOverflow,
		cqes:        &reg.cqes[0],
	}
	return r, reg
}

// consumingGate behaves like a synchronous kernel: every successful
// enter retires all published entries by advancing the shared head.
func consumingGate(reg *testRegion) *fake.Gate {
	g := fake.NewGate()
	g.SetHandler(func(c fake.EnterCall) (uint32, error) {
		atomic.AddUint32(&reg.sqHead, c.ToSubmit)
		return c.ToSubmit, nil
	})
	return g
}

// postCQE appends a completion as the kernel would: slot write first,
// tail bump after.
func (reg *testRegion) postCQE(cqe CQE) {
	tail := atomic.LoadUint32(&reg.cqTail)
	reg.cqes[tail&reg.cqRingMask] = cqe
	atomic.StoreUint32(&reg.cqTail, tail+1)
}

// fillNops allocates n entries, preparing each as a tagged no-op.
func fillNops(t *testing.T, r *Ring, n uint32) {
	t.Helper()
	for i := uint32(0); i < n; i++ {
		sqe := r.NextSQE()
		if sqe == nil {
			t.Fatalf("NextSQE returned nil at entry %d of %d", i, n)
		}
		sqe.PrepareNop()
		sqe.SetData(uint64(i) + 1)
	}
}
