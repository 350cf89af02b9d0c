package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"golang.org/x/xerrors"

	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/storage"
)

type Error struct {
	Op  string
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("memorystore: op: %q err: %q", e.Op, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

type record struct {
	data     []byte
	typ      reflect.Type
	version  keel.Version
	storedAt time.Time
}

type write struct {
	name   keel.Ident
	data   []byte
	typ    reflect.Type
	seen   keel.Version
	remove bool
}

// Adapter is an in-memory keel.PersistenceAdapter. Writes are
// buffered by Persist and Remove and validated against the stored
// versions when Flush is called, the same shape a database-backed
// adapter would have with a session cache in front of the store.
//
// Aggregate state crosses the adapter boundary as JSON, Find hands
// back a fresh zero value of the persisted type rehydrated from the
// stored snapshot rather than any shared reference.
type Adapter struct {
	sync.RWMutex
	clock   keel.Clock
	records map[keel.Ident]record
	pending []write
}

func NewAdapter(clock keel.Clock) *Adapter {
	return &Adapter{clock: clock, records: map[keel.Ident]record{}}
}

func NewEmptyAdapter() *Adapter {
	return NewAdapter(systemClock{})
}

type systemClock struct{}

func (c systemClock) Now() time.Time { return time.Now().UTC() }

func (a *Adapter) Find(ctx context.Context, name keel.Ident) (keel.Aggregate, keel.Version, error) {

	spnFind, _ := opentracing.StartSpanFromContext(ctx, "memorystore.Find")
	spnFind.SetTag("aggregate.name", name.String())
	defer spnFind.Finish()

	a.RLock()
	rec, exists := a.records[name]
	a.RUnlock()

	if !exists {
		return nil, keel.VersionNone, nil
	}

	root, ok := reflect.New(rec.typ).Interface().(keel.Aggregate)
	if !ok {
		return nil, keel.VersionNone, Error{"find", xerrors.Errorf("stored type %s does not implement keel.Aggregate", rec.typ)}
	}
	if err := json.Unmarshal(rec.data, root); err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}
	if err := root.SetName(name); err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}
	return root, rec.version, nil
}

func (a *Adapter) Persist(ctx context.Context, name keel.Ident, root keel.Aggregate, seen keel.Version) error {
	data, err := json.Marshal(root)
	if err != nil {
		return Error{"persist", err}
	}
	a.Lock()
	a.pending = append(a.pending, write{name: name, data: data, typ: toType(root), seen: seen})
	a.Unlock()
	return nil
}

func (a *Adapter) Remove(ctx context.Context, name keel.Ident, seen keel.Version) error {
	a.Lock()
	a.pending = append(a.pending, write{name: name, seen: seen, remove: true})
	a.Unlock()
	return nil
}

// Flush validates and applies the buffered writes in order. The
// whole buffer either commits or is discarded, a failed flush never
// leaves a partial unit of work behind in the store.
func (a *Adapter) Flush(ctx context.Context) error {

	spnFlush, _ := opentracing.StartSpanFromContext(ctx, "memorystore.Flush")
	defer spnFlush.Finish()

	a.Lock()
	defer a.Unlock()

	var (
		staged  = map[keel.Ident]record{}
		removed = map[keel.Ident]bool{}
	)

	current := func(name keel.Ident) (record, bool) {
		if removed[name] {
			return record{}, false
		}
		if rec, ok := staged[name]; ok {
			return rec, true
		}
		rec, ok := a.records[name]
		return rec, ok
	}

	for _, w := range a.pending {
		rec, exists := current(w.name)
		switch {
		case w.remove:
			if !exists || !w.seen.Matches(rec.version) {
				a.pending = nil
				return Error{"flush", xerrors.Errorf("remove %s: %w", w.name, storage.ErrStaleVersion)}
			}
			removed[w.name] = true
			delete(staged, w.name)
		case !w.seen.Defined():
			if exists {
				a.pending = nil
				return Error{"flush", xerrors.Errorf("insert %s: %w", w.name, storage.ErrDuplicateIdent)}
			}
			staged[w.name] = record{data: w.data, typ: w.typ, version: 1, storedAt: a.clock.Now()}
			delete(removed, w.name)
		default:
			if !exists || !w.seen.Matches(rec.version) {
				a.pending = nil
				return Error{"flush", xerrors.Errorf("update %s: %w", w.name, storage.ErrStaleVersion)}
			}
			staged[w.name] = record{data: w.data, typ: w.typ, version: rec.version + 1, storedAt: a.clock.Now()}
		}
	}

	for name := range removed {
		delete(a.records, name)
	}
	for name, rec := range staged {
		a.records[name] = rec
	}
	a.pending = nil

	return nil
}

// Len reports the number of stored aggregates, useful for tests.
func (a *Adapter) Len() int {
	a.RLock()
	defer a.RUnlock()
	return len(a.records)
}

func toType(t keel.Aggregate) reflect.Type {
	var v = reflect.ValueOf(t)
	if reflect.Ptr == v.Kind() || reflect.Interface == v.Kind() {
		v = v.Elem()
	}
	return v.Type()
}
