package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/keel-framework/go-keel/framework/keel"
)

// handle owns one aggregate root between Load/Create and Release.
// It carries the version observed at load time, the identifier's
// lock, and hands applied events through to the configured sink.
type handle struct {
	root    keel.Aggregate
	name    keel.Ident
	version keel.Version

	lock keel.Lock
	sink keel.EventSink
	log  keel.Logger

	mu       sync.Mutex
	released bool
}

func (h *handle) Root() keel.Aggregate {
	return h.root
}

func (h *handle) Name() keel.Ident {
	return h.name
}

func (h *handle) Version() keel.Version {
	return h.version
}

// Apply routes the event through the root's ReactTo and then to the
// event sink. A sink failure is logged and swallowed, publication is
// fire-and-forget as far as the unit of work is concerned.
func (h *handle) Apply(ctx context.Context, ev keel.Event) error {
	if err := h.root.ReactTo(ev); err != nil {
		return errors.Wrapf(err, "aggregate %q rejected event", h.name)
	}
	if h.sink != nil {
		if err := h.sink.Publish(ctx, ev); err != nil {
			h.log.Warnf("event sink rejected event for %q: %s", h.name, err)
		}
	}
	return nil
}

// Release gives the identifier's lock back and ends the unit of
// work. Safe to call more than once, callers should defer it
// directly after a successful Load or Create.
func (h *handle) Release() {
	h.mu.Lock()
	already := h.released
	h.released = true
	h.mu.Unlock()
	if !already {
		h.lock.Release()
	}
}

func (h *handle) holdsLock() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.released
}
