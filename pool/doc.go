// Package pool — pre-registered buffer management for fixed I/O.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size buffers carved from one contiguous slab, suitable for
// kernel buffer registration. Read-fixed and write-fixed submissions
// reference a buffer by its slot index instead of revalidating pages
// on every operation.
package pool
