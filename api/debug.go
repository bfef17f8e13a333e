// Package api
// Author: momentics <momentics@gmail.com>
//
// Introspection contract for live ring diagnostics.
//
// License: Apache-2.0

package api

// Debug exposes runtime state inspection. Implementations gather
// queue depths, counters, and any probe a component registers.
type Debug interface {
	// DumpState runs every registered probe and returns the results
	// keyed by probe name.
	DumpState() map[string]any

	// RegisterProbe adds a named hook evaluated at dump time.
	RegisterProbe(name string, fn func() any)
}
