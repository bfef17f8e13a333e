// File: uring/doc.go
// Package uring
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer-side management of a kernel asynchronous I/O ring pair.
// The package owns the submission-queue protocol: slot allocation over the
// shared descriptor array, batched publication through the indirection
// array with a single release-store of the shared tail, the decision
// whether the enter syscall is needed at all (kernel-side polling mode),
// and retry/backpressure classification of that syscall. Completion
// harvesting, ring setup/teardown and buffer/file registration live in
// sibling files as collaborators of the same ring object.
//
// All submission-side methods are single-producer: one goroutine at a
// time. The kernel (and its polling thread, when enabled) is the only
// concurrent actor and interacts exclusively through the shared counters
// under acquire/release ordering.

package uring
