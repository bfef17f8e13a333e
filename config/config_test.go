// File: config/config_test.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/hioload-uring/api"
	"github.com/momentics/hioload-uring/uring"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HIOLOAD_URING_ENTRIES",
		"HIOLOAD_URING_SQPOLL",
		"HIOLOAD_URING_SQ_IDLE_MS",
		"HIOLOAD_URING_SQ_CPU",
		"HIOLOAD_URING_CQ_ENTRIES",
		"HIOLOAD_URING_CHECK_INVARIANTS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HIOLOAD_URING_ENTRIES", "1024")
	t.Setenv("HIOLOAD_URING_SQPOLL", "true")
	t.Setenv("HIOLOAD_URING_SQ_IDLE_MS", "250")
	t.Setenv("HIOLOAD_URING_SQ_CPU", "3")
	t.Setenv("HIOLOAD_URING_CQ_ENTRIES", "4096")
	t.Setenv("HIOLOAD_URING_CHECK_INVARIANTS", "false")

	cfg, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Config{
		Entries:         1024,
		SQPoll:          true,
		SQThreadIdleMS:  250,
		SQThreadCPU:     3,
		CQEntries:       4096,
		CheckInvariants: false,
	}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestFromEnvDotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	data := "HIOLOAD_URING_ENTRIES=64\nHIOLOAD_URING_SQPOLL=1\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromEnv(path)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Entries != 64 || !cfg.SQPoll {
		t.Fatalf("cfg = %+v, want entries 64 with sqpoll", cfg)
	}
}

func TestFromEnvProcessWinsOverFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HIOLOAD_URING_ENTRIES=64\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HIOLOAD_URING_ENTRIES", "128")

	cfg, err := FromEnv(path)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Entries != 128 {
		t.Fatalf("entries = %d, want process env to win", cfg.Entries)
	}
}

func TestFromEnvMissingFileIgnored(t *testing.T) {
	clearEnv(t)
	if _, err := FromEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
}

func TestFromEnvBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("HIOLOAD_URING_ENTRIES", "banana")
	if _, err := FromEnv(""); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsNonPowerOfTwo(t *testing.T) {
	cfg := Default()
	cfg.Entries = 100
	if err := cfg.Validate(); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	cfg.Entries = 0
	if err := cfg.Validate(); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestValidateRejectsSmallCQ(t *testing.T) {
	cfg := Default()
	cfg.Entries = 256
	cfg.CQEntries = 128
	if err := cfg.Validate(); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestParamsFlagMapping(t *testing.T) {
	cfg := Config{
		Entries:        128,
		SQPoll:         true,
		SQThreadIdleMS: 500,
		SQThreadCPU:    2,
		CQEntries:      512,
	}
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Entries != 128 || p.CQEntries != 512 || p.SQThreadIdle != 500 || p.SQThreadCPU != 2 {
		t.Fatalf("params = %+v", p)
	}
	for _, f := range []uint32{uring.SetupSQPoll, uring.SetupCQSize, uring.SetupSQAff} {
		if p.Flags&f == 0 {
			t.Fatalf("flags %#x missing %#x", p.Flags, f)
		}
	}
}

func TestParamsNoPinningWithoutCPU(t *testing.T) {
	cfg := Default()
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Flags != 0 {
		t.Fatalf("flags = %#x, want none for defaults", p.Flags)
	}
}
