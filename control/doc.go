// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for ring-backed I/O paths.
//
// Provides concurrent-safe observability primitives including:
//   - Lock-free counters for hot submission and completion paths
//   - A registry exporting snapshots as maps or JSON
//   - Debug probes reflecting live ring state on demand
//
// License: Apache-2.0
package control
