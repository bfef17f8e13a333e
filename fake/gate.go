// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the kernel entry gate.

package fake

import (
	"sync"

	"github.com/momentics/hioload-uring/api"
)

// EnterCall records one invocation of the gate.
type EnterCall struct {
	Fd          int
	ToSubmit    uint32
	MinComplete uint32
	Flags       uint32
}

// Gate is a scripted api.EnterGate. By default every call succeeds and
// reports all toSubmit entries consumed. Queued errors are returned
// first, one per call, which lets tests script interruption and
// backpressure sequences before the default behavior resumes.
type Gate struct {
	mu      sync.Mutex
	calls   []EnterCall
	errs    []error
	onEnter func(c EnterCall) (uint32, error)
}

var _ api.EnterGate = (*Gate)(nil)

// NewGate creates a gate that accepts everything.
func NewGate() *Gate {
	return &Gate{}
}

// Enter implements api.EnterGate.
func (g *Gate) Enter(fd int, toSubmit, minComplete, flags uint32) (uint32, error) {
	g.mu.Lock()
	c := EnterCall{Fd: fd, ToSubmit: toSubmit, MinComplete: minComplete, Flags: flags}
	g.calls = append(g.calls, c)
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		g.mu.Unlock()
		return 0, err
	}
	fn := g.onEnter
	g.mu.Unlock()

	if fn != nil {
		return fn(c)
	}
	return toSubmit, nil
}

// FailWith queues errors to be returned by upcoming calls, in order.
func (g *Gate) FailWith(errs ...error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = append(g.errs, errs...)
}

// SetHandler overrides the default success behavior, applied once any
// queued errors are exhausted.
func (g *Gate) SetHandler(fn func(c EnterCall) (uint32, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onEnter = fn
}

// Calls returns a copy of all recorded invocations.
func (g *Gate) Calls() []EnterCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]EnterCall, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount returns the number of recorded invocations.
func (g *Gate) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// Reset clears recorded calls and queued errors.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
	g.errs = nil
	g.onEnter = nil
}
