package lock

import (
	"context"
	"sync"

	"github.com/keel-framework/go-keel/framework/ctxkey"
	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/matcher"
)

// NewExclusive returns a blocking mutual exclusion factory keyed by
// identifier and scoped to one process. Acquire blocks while another
// unit of work holds the identifier, bounded by the context deadline.
//
// Re-acquisition by the same unit of work (as named by the owner
// token in the context, see ctxkey.WithOwner) is a no-op, the
// identifier is freed once every acquisition has been released.
// Anonymous callers are never considered the same owner.
func NewExclusive() *Exclusive {
	return &Exclusive{entries: map[keel.Ident]*entry{}}
}

type Exclusive struct {
	mu      sync.Mutex
	entries map[keel.Ident]*entry
}

type entry struct {
	owner string
	holds int

	// closed when holds reaches zero and the entry is removed,
	// waiters re-contend from scratch rather than inheriting.
	freed chan struct{}
}

func (e *Exclusive) Acquire(ctx context.Context, name keel.Ident) (keel.Lock, error) {
	var owner = ctxkey.Owner(ctx)
	for {
		e.mu.Lock()
		ent, held := e.entries[name]
		if !held {
			ent = &entry{owner: owner, holds: 1, freed: make(chan struct{})}
			e.entries[name] = ent
			e.mu.Unlock()
			return &exclusiveLock{table: e, name: name, ent: ent}, nil
		}
		if owner != "" && ent.owner == owner {
			ent.holds++
			e.mu.Unlock()
			return &exclusiveLock{table: e, name: name, ent: ent}, nil
		}
		freed := ent.freed
		e.mu.Unlock()

		select {
		case <-freed:
		case <-ctx.Done():
			return nil, Error{"acquire", ctx.Err()}
		}
	}
}

// Held lists the identifiers of currently held locks matching the
// given glob pattern. Useful for tests and deadlock diagnosis and
// not much else.
func (e *Exclusive) Held(pattern string) []keel.Ident {
	var (
		m     = matcher.NewGlobPattern(pattern)
		names []keel.Ident
	)
	e.mu.Lock()
	defer e.mu.Unlock()
	for name := range e.entries {
		if ok, _ := m.DoesMatch(name); ok {
			names = append(names, name)
		}
	}
	return names
}

type exclusiveLock struct {
	table *Exclusive
	name  keel.Ident
	ent   *entry
	once  sync.Once
}

func (l *exclusiveLock) Release() {
	l.once.Do(func() {
		l.table.mu.Lock()
		defer l.table.mu.Unlock()
		l.ent.holds--
		if l.ent.holds == 0 {
			delete(l.table.entries, l.name)
			close(l.ent.freed)
		}
	})
}
