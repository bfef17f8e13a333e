// File: harvest/harvester.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion harvesting decoupled from dispatch. Draining copies
// completions out of the shared ring and releases the slots in one
// head advance, so the kernel regains space even when handlers are
// slow. Dispatch then works off the buffered copies at its own pace.

package harvest

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-uring/control"
	"github.com/momentics/hioload-uring/uring"
)

// Source is the completion-side ring surface the harvester drains.
// *uring.Ring satisfies it.
type Source interface {
	PeekCQE() *uring.CQE
	AdvanceCQ(n uint32)
	WaitCQE() (*uring.CQE, error)
}

// Completion is a harvested record, a stable copy detached from the
// shared ring memory.
type Completion struct {
	UserData uint64
	Res      int32
	Flags    uint32
}

// Handler consumes one completion.
type Handler func(Completion)

// Options tunes a Harvester.
type Options struct {
	// Log receives slow-path diagnostics. Nil disables logging.
	Log *logrus.Logger

	// Metrics, when set, receives harvested/dispatched/unmatched
	// counters.
	Metrics *control.MetricsRegistry

	// BatchLimit caps how many completions one Drain call copies out.
	// Zero means no cap.
	BatchLimit uint32
}

// Harvester drains completions from a Source into a FIFO and routes
// them to handlers keyed by the submission's user data tag.
type Harvester struct {
	src  Source
	log  *logrus.Logger
	opts Options

	mu        sync.Mutex
	fifo     *queue.Queue
	handlers map[uint64]Handler
	catchAll Handler

	harvested  *control.Counter
	dispatched *control.Counter
	unmatched  *control.Counter
}

// New creates a Harvester over src.
func New(src Source, opts Options) *Harvester {
	h := &Harvester{
		src:      src,
		log:      opts.Log,
		opts:     opts,
		fifo:     queue.New(),
		handlers: make(map[uint64]Handler),
	}
	if opts.Metrics != nil {
		h.harvested = opts.Metrics.Counter("harvest.completions")
		h.dispatched = opts.Metrics.Counter("harvest.dispatched")
		h.unmatched = opts.Metrics.Counter("harvest.unmatched")
	}
	return h
}

// OnComplete registers a handler for completions tagged with userData.
// A handler fires once and is then forgotten, matching the one-shot
// nature of a submission.
func (h *Harvester) OnComplete(userData uint64, fn Handler) {
	h.mu.Lock()
	h.handlers[userData] = fn
	h.mu.Unlock()
}

// OnDefault registers the fall-through handler for completions with no
// per-tag handler.
func (h *Harvester) OnDefault(fn Handler) {
	h.mu.Lock()
	h.catchAll = fn
	h.mu.Unlock()
}

// Drain copies every ready completion into the internal FIFO and frees
// the ring slots with a single head advance. Returns how many were
// harvested.
func (h *Harvester) Drain() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drainLocked()
}

func (h *Harvester) drainLocked() uint32 {
	var n uint32
	for {
		if h.opts.BatchLimit != 0 && n >= h.opts.BatchLimit {
			break
		}
		cqe := h.src.PeekCQE()
		if cqe == nil {
			break
		}
		h.fifo.Add(Completion{UserData: cqe.UserData, Res: cqe.Res, Flags: cqe.Flags})
		h.src.AdvanceCQ(1)
		n++
	}
	if n > 0 && h.harvested != nil {
		h.harvested.Add(uint64(n))
	}
	return n
}

// DrainWait blocks until at least one completion is available, then
// drains everything ready.
func (h *Harvester) DrainWait() (uint32, error) {
	if _, err := h.src.WaitCQE(); err != nil {
		return 0, err
	}
	return h.Drain(), nil
}

// Pending returns how many harvested completions await dispatch.
func (h *Harvester) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fifo.Length()
}

// Dispatch routes buffered completions to their handlers and returns
// how many were delivered. Handlers run without the harvester lock
// held, so they may submit follow-up work or register new handlers.
func (h *Harvester) Dispatch() uint32 {
	var n uint32
	for {
		h.mu.Lock()
		if h.fifo.Length() == 0 {
			h.mu.Unlock()
			return n
		}
		c := h.fifo.Remove().(Completion)
		fn, ok := h.handlers[c.UserData]
		if ok {
			delete(h.handlers, c.UserData)
		} else {
			fn = h.catchAll
		}
		h.mu.Unlock()

		if c.Res < 0 && h.log != nil {
			h.log.WithFields(logrus.Fields{
				"user_data": c.UserData,
				"res":       c.Res,
			}).Warn("completion failed")
		}
		if fn == nil {
			if h.unmatched != nil {
				h.unmatched.Inc()
			}
			if h.log != nil {
				h.log.WithField("user_data", c.UserData).Debug("completion dropped, no handler")
			}
			continue
		}
		fn(c)
		n++
		if h.dispatched != nil {
			h.dispatched.Inc()
		}
	}
}

// Harvest drains and dispatches in one call, the common reactor-loop
// step. Returns the number of handlers invoked.
func (h *Harvester) Harvest() uint32 {
	h.Drain()
	return h.Dispatch()
}
