// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry for on-demand ring inspection. Probes run at
// dump time, so a snapshot always reflects live queue state.
//
// License: Apache-2.0

package control

import (
	"fmt"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-uring/api"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Debug = (*DebugProbes)(nil)

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook. Re-registering a name
// replaces the previous hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// ObserveRing registers the standard probes for a submission ring:
// queue depths and cumulative submit statistics.
func (dp *DebugProbes) ObserveRing(name string, r ringProber) {
	dp.RegisterProbe(name+".sq", func() any {
		return map[string]any{
			"entries":    r.SQEntries(),
			"space_left": r.SQSpaceLeft(),
			"pending":    r.SQPending(),
		}
	})
	dp.RegisterProbe(name+".stats", func() any { return r.Stats() })
}

// ringProber is the slice of ring surface the probes need.
type ringProber interface {
	SQEntries() uint32
	SQSpaceLeft() uint32
	SQPending() uint32
	Stats() map[string]any
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// DumpJSON serializes the full probe output.
func (dp *DebugProbes) DumpJSON() ([]byte, error) {
	data, err := sonnet.Marshal(dp.DumpState())
	if err != nil {
		return nil, fmt.Errorf("control: encode probe dump: %w", err)
	}
	return data, nil
}
