// File: uring/cqring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package uring

import (
	"errors"
	"syscall"
	"testing"

	"github.com/momentics/hioload-uring/api"
	"github.com/momentics/hioload-uring/fake"
)

func TestPeekCQE_EmptyRing(t *testing.T) {
	r, _ := newTestRing(t, 8, 0, fake.NewGate())
	if r.PeekCQE() != nil {
		t.Fatal("PeekCQE returned an entry from an empty ring")
	}
	if r.CQPending() != 0 {
		t.Fatalf("CQPending = %d, want 0", r.CQPending())
	}
}

func TestPeekAndAdvanceInOrder(t *testing.T) {
	r, reg := newTestRing(t, 8, 0, fake.NewGate())
	for i := uint64(1); i <= 3; i++ {
		reg.postCQE(CQE{UserData: i, Res: int32(i) * 10})
	}
	if r.CQPending() != 3 {
		t.Fatalf("CQPending = %d, want 3", r.CQPending())
	}

	for i := uint64(1); i <= 3; i++ {
		cqe := r.PeekCQE()
		if cqe == nil {
			t.Fatalf("PeekCQE nil with %d entries pending", 4-i)
		}
		if cqe.UserData != i || cqe.Res != int32(i)*10 {
			t.Fatalf("cqe = %+v, want userdata %d res %d", cqe, i, i*10)
		}
		r.AdvanceCQ(1)
	}
	if r.PeekCQE() != nil {
		t.Fatal("PeekCQE returned an entry after the ring was drained")
	}
}

func TestAdvanceCQZeroIsNoop(t *testing.T) {
	r, reg := newTestRing(t, 8, 0, fake.NewGate())
	reg.postCQE(CQE{UserData: 7})
	r.AdvanceCQ(0)
	if r.CQPending() != 1 {
		t.Fatalf("CQPending = %d after AdvanceCQ(0), want 1", r.CQPending())
	}
}

func TestWaitCQE_EntersUntilCompletionArrives(t *testing.T) {
	r, reg := newTestRing(t, 8, 0, nil)
	gate := fake.NewGate()
	gate.FailWith(syscall.EINTR)
	gate.SetHandler(func(c fake.EnterCall) (uint32, error) {
		if c.Flags&EnterGetEvents == 0 {
			t.Errorf("wait entered without get-events, flags %#x", c.Flags)
		}
		reg.postCQE(CQE{UserData: 99, Res: 0})
		return 0, nil
	})
	r.gate = gate

	cqe, err := r.WaitCQE()
	if err != nil {
		t.Fatalf("WaitCQE: %v", err)
	}
	if cqe.UserData != 99 {
		t.Fatalf("cqe userdata = %d, want 99", cqe.UserData)
	}
	if gate.CallCount() != 2 {
		t.Fatalf("gate entered %d times, want 1 interrupted + 1 successful", gate.CallCount())
	}
}

func TestWaitCQE_FatalErrno(t *testing.T) {
	gate := fake.NewGate()
	gate.FailWith(syscall.EBADF)
	r, _ := newTestRing(t, 8, 0, gate)

	_, err := r.WaitCQE()
	var enterErr *api.EnterError
	if !errors.As(err, &enterErr) {
		t.Fatalf("err = %v, want *api.EnterError", err)
	}
	if enterErr.Errno != syscall.EBADF {
		t.Fatalf("errno = %v, want EBADF", enterErr.Errno)
	}
}

func TestCQWraparound(t *testing.T) {
	r, reg := newTestRing(t, 4, 0, fake.NewGate())
	start := ^uint32(0) - 1
	reg.cqHead = start
	reg.cqTail = start

	for i := uint64(0); i < 4; i++ {
		reg.postCQE(CQE{UserData: i + 1})
	}
	for i := uint64(1); i <= 4; i++ {
		cqe := r.PeekCQE()
		if cqe == nil || cqe.UserData != i {
			t.Fatalf("peek %d across wrap = %+v", i, cqe)
		}
		r.AdvanceCQ(1)
	}
	if reg.cqHead != start+4 {
		t.Fatalf("cq head = %d, want wrapped %d", reg.cqHead, start+4)
	}
}
