// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics for submission and completion paths. Counters are
// plain atomics so the hot path never takes the registry lock; the
// lock guards only registration and snapshotting.
//
// License: Apache-2.0

package control

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Counter is a monotonically increasing metric safe for concurrent use.
type Counter struct {
	v atomic.Uint64
}

// Inc adds one.
func (c *Counter) Inc() { c.v.Add(1) }

// Add adds n.
func (c *Counter) Add(n uint64) { c.v.Add(n) }

// Value returns the current count.
func (c *Counter) Value() uint64 { return c.v.Load() }

// MetricsRegistry holds named counters and free-form gauges.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]any
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]any),
	}
}

// Counter returns the counter registered under name, creating it on
// first use. The returned pointer is stable and may be cached by hot
// paths to avoid repeated map lookups.
func (mr *MetricsRegistry) Counter(name string) *Counter {
	mr.mu.RLock()
	c, ok := mr.counters[name]
	mr.mu.RUnlock()
	if ok {
		return c
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok = mr.counters[name]; ok {
		return c
	}
	c = &Counter{}
	mr.counters[name] = c
	return c
}

// Set sets or updates a gauge key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.gauges[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Snapshot returns counters and gauges merged into one map.
func (mr *MetricsRegistry) Snapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.counters)+len(mr.gauges))
	for k, v := range mr.gauges {
		out[k] = v
	}
	for k, c := range mr.counters {
		out[k] = c.Value()
	}
	return out
}

// SnapshotJSON serializes the current snapshot for export over control
// sockets or debug endpoints.
func (mr *MetricsRegistry) SnapshotJSON() ([]byte, error) {
	data, err := sonnet.Marshal(mr.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("control: encode metrics: %w", err)
	}
	return data, nil
}
