// File: uring/abi_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pins the shared-memory layouts to the kernel ABI. A drift here means
// silent ring corruption, not a compile error, so every offset the
// kernel hands back is asserted explicitly.

package uring

import (
	"testing"
	"unsafe"
)

func TestStructSizesMatchKernelABI(t *testing.T) {
	testCases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"ringParams", unsafe.Sizeof(ringParams{}), 120},
		{"sqringOffsets", unsafe.Sizeof(sqringOffsets{}), 40},
		{"cqringOffsets", unsafe.Sizeof(cqringOffsets{}), 40},
		{"SQE", unsafe.Sizeof(SQE{}), 64},
		{"CQE", unsafe.Sizeof(CQE{}), 16},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("sizeof(%s) = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestSQEFieldOffsets(t *testing.T) {
	var e SQE
	base := uintptr(unsafe.Pointer(&e))
	testCases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Opcode", uintptr(unsafe.Pointer(&e.Opcode)) - base, 0},
		{"Flags", uintptr(unsafe.Pointer(&e.Flags)) - base, 1},
		{"IoPrio", uintptr(unsafe.Pointer(&e.IoPrio)) - base, 2},
		{"Fd", uintptr(unsafe.Pointer(&e.Fd)) - base, 4},
		{"Off", uintptr(unsafe.Pointer(&e.Off)) - base, 8},
		{"Addr", uintptr(unsafe.Pointer(&e.Addr)) - base, 16},
		{"Len", uintptr(unsafe.Pointer(&e.Len)) - base, 24},
		{"OpFlags", uintptr(unsafe.Pointer(&e.OpFlags)) - base, 28},
		{"UserData", uintptr(unsafe.Pointer(&e.UserData)) - base, 32},
		{"BufIndex", uintptr(unsafe.Pointer(&e.BufIndex)) - base, 40},
		{"Personality", uintptr(unsafe.Pointer(&e.Personality)) - base, 42},
		{"SpliceFdIn", uintptr(unsafe.Pointer(&e.SpliceFdIn)) - base, 44},
		{"Addr3", uintptr(unsafe.Pointer(&e.Addr3)) - base, 48},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("offsetof(SQE.%s) = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestCQEFieldOffsets(t *testing.T) {
	var c CQE
	base := uintptr(unsafe.Pointer(&c))
	if off := uintptr(unsafe.Pointer(&c.UserData)) - base; off != 0 {
		t.Errorf("offsetof(CQE.UserData) = %d, want 0", off)
	}
	if off := uintptr(unsafe.Pointer(&c.Res)) - base; off != 8 {
		t.Errorf("offsetof(CQE.Res) = %d, want 8", off)
	}
	if off := uintptr(unsafe.Pointer(&c.Flags)) - base; off != 12 {
		t.Errorf("offsetof(CQE.Flags) = %d, want 12", off)
	}
}

func TestPrepareHelpersFillDescriptors(t *testing.T) {
	buf := make([]byte, 4096)

	var e SQE
	e.PrepareRead(7, buf, 512)
	if e.Opcode != OpRead || e.Fd != 7 || e.Len != 4096 || e.Off != 512 {
		t.Errorf("PrepareRead produced %+v", e)
	}
	if e.Addr != uint64(uintptr(unsafe.Pointer(&buf[0]))) {
		t.Error("PrepareRead did not capture the buffer address")
	}

	e = SQE{}
	e.PrepareWriteFixed(3, buf, 0, 5)
	if e.Opcode != OpWriteFixed || e.BufIndex != 5 {
		t.Errorf("PrepareWriteFixed produced %+v", e)
	}

	e = SQE{}
	e.PrepareNop()
	if e.Opcode != OpNop || e.Fd != -1 {
		t.Errorf("PrepareNop produced %+v", e)
	}
}
