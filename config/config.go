// File: config/config.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Environment-driven configuration for ring construction. Values come
// from HIOLOAD_URING_* variables, optionally seeded from a .env file.

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/momentics/hioload-uring/api"
	"github.com/momentics/hioload-uring/uring"
)

// Config carries every tunable needed to build a Ring.
type Config struct {
	// Entries is the submission queue depth. Must be a power of two.
	Entries uint32

	// SQPoll enables the kernel-side submission poller thread.
	SQPoll bool

	// SQThreadIdleMS is how long the poller spins before sleeping.
	// Only meaningful when SQPoll is set.
	SQThreadIdleMS uint32

	// SQThreadCPU pins the poller to a CPU. Negative means no pinning.
	SQThreadCPU int

	// CQEntries overrides the completion queue depth. Zero keeps the
	// kernel default of twice the submission depth.
	CQEntries uint32

	// CheckInvariants enables the dropped-counter check on every
	// submit. Cheap enough to leave on outside hot benchmarks.
	CheckInvariants bool
}

// Default returns a configuration suitable for most workloads.
func Default() Config {
	return Config{
		Entries:         256,
		SQPoll:          false,
		SQThreadIdleMS:  1000,
		SQThreadCPU:     -1,
		CheckInvariants: true,
	}
}

// FromEnv builds a Config from the process environment. When envFile
// is non-empty it is loaded first without overriding variables already
// set, matching the usual .env precedence.
func FromEnv(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	var err error

	if cfg.Entries, err = envUint32("HIOLOAD_URING_ENTRIES", cfg.Entries); err != nil {
		return Config{}, err
	}
	if cfg.SQPoll, err = envBool("HIOLOAD_URING_SQPOLL", cfg.SQPoll); err != nil {
		return Config{}, err
	}
	if cfg.SQThreadIdleMS, err = envUint32("HIOLOAD_URING_SQ_IDLE_MS", cfg.SQThreadIdleMS); err != nil {
		return Config{}, err
	}
	if cfg.SQThreadCPU, err = envInt("HIOLOAD_URING_SQ_CPU", cfg.SQThreadCPU); err != nil {
		return Config{}, err
	}
	if cfg.CQEntries, err = envUint32("HIOLOAD_URING_CQ_ENTRIES", cfg.CQEntries); err != nil {
		return Config{}, err
	}
	if cfg.CheckInvariants, err = envBool("HIOLOAD_URING_CHECK_INVARIANTS", cfg.CheckInvariants); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the kernel would refuse anyway, so
// callers get a clear error before the syscall.
func (c Config) Validate() error {
	if c.Entries == 0 || c.Entries&(c.Entries-1) != 0 {
		return fmt.Errorf("%w: entries %d is not a power of two", api.ErrInvalidArgument, c.Entries)
	}
	if c.CQEntries != 0 && c.CQEntries < c.Entries {
		return fmt.Errorf("%w: cq entries %d below sq entries %d", api.ErrInvalidArgument, c.CQEntries, c.Entries)
	}
	return nil
}

// Params converts the configuration into ring construction parameters.
func (c Config) Params() (uring.Params, error) {
	if err := c.Validate(); err != nil {
		return uring.Params{}, err
	}
	p := uring.Params{
		Entries:         c.Entries,
		CQEntries:       c.CQEntries,
		SQThreadIdle:    c.SQThreadIdleMS,
		CheckInvariants: c.CheckInvariants,
	}
	if c.SQPoll {
		p.Flags |= uring.SetupSQPoll
	}
	if c.CQEntries != 0 {
		p.Flags |= uring.SetupCQSize
	}
	if c.SQThreadCPU >= 0 {
		p.Flags |= uring.SetupSQAff
		p.SQThreadCPU = uint32(c.SQThreadCPU)
	}
	return p, nil
}

func envUint32(key string, def uint32) (uint32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, raw, err)
	}
	return uint32(v), nil
}

func envInt(key string, def int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func envBool(key string, def bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q: %w", key, raw, err)
	}
	return v, nil
}
