package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"golang.org/x/xerrors"

	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/lock"
	"github.com/keel-framework/go-keel/framework/storage"
	"github.com/keel-framework/go-keel/framework/storage/memory"
)

// Locking mediates between in-memory aggregate roots and a backing
// persistence store. Every Load and Create claims the identifier's
// advisory lock before touching the store and every failure path
// gives it back before the error surfaces, so a crashed unit of
// work can never wedge an identifier.
//
// The lock is process-local. Whatever happens here, the store's own
// optimistic version check is re-validated at flush and remains the
// only cross-process guarantee.
type Locking struct {
	kind    string
	adapter keel.PersistenceAdapter
	locks   keel.LockFactory

	sink   keel.EventSink
	idFn   keel.IDFn
	logger keel.Logger

	claimTimeout time.Duration
	forceFlush   bool
}

type Option func(*Locking)

// WithForceFlush controls whether Save and Delete flush the adapter
// synchronously so store-level conflicts surface from the call
// itself rather than from some unrelated later flush. Defaults to
// true, early detection is worth the roundtrip.
func WithForceFlush(on bool) Option {
	return func(r *Locking) { r.forceFlush = on }
}

// WithIDFn overrides how identifiers for created aggregates are minted.
func WithIDFn(fn keel.IDFn) Option {
	return func(r *Locking) { r.idFn = fn }
}

// WithEventSink wires the sink that receives events applied through
// handles checked out of this repository.
func WithEventSink(sink keel.EventSink) Option {
	return func(r *Locking) { r.sink = sink }
}

func WithLogger(l keel.Logger) Option {
	return func(r *Locking) { r.logger = l }
}

// WithClaimTimeout bounds how long Load and Create wait on a
// contended identifier before giving up.
func WithClaimTimeout(d time.Duration) Option {
	return func(r *Locking) { r.claimTimeout = d }
}

// New wires a LockFactory and a PersistenceAdapter into a usable
// repository for one aggregate kind. Identifiers minted by Create
// take the shape "<kind>/<id>".
func New(kind string, adapter keel.PersistenceAdapter, locks keel.LockFactory, opts ...Option) *Locking {
	r := &Locking{
		kind:         kind,
		adapter:      adapter,
		locks:        locks,
		idFn:         randomHexID,
		logger:       nopLogger{},
		claimTimeout: 5 * time.Second,
		forceFlush:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewEmptyMemory returns a repository over a fresh in-memory
// adapter guarded by exclusive locks, enough to write command
// handlers against without standing up any real storage.
func NewEmptyMemory(kind string, opts ...Option) *Locking {
	return New(kind, memory.NewEmptyAdapter(), lock.NewExclusive(), opts...)
}

var _ keel.Repo = (*Locking)(nil)

func (r *Locking) Load(ctx context.Context, name keel.Ident, expected keel.Version) (keel.Handle, error) {

	spnLoad, ctx := opentracing.StartSpanFromContext(ctx, "repository.Locking.Load")
	spnLoad.SetTag("aggregate.name", name.String())
	spnLoad.SetTag("aggregate.expectedVersion", expected.String())
	defer spnLoad.Finish()

	lk, err := r.claim(ctx, name)
	if err != nil {
		return nil, Error{"load", err, "could not claim aggregate lock"}
	}

	root, actual, err := r.adapter.Find(ctx, name)
	if err != nil {
		lk.Release()
		return nil, Error{"load", err, "persistence adapter failed"}
	}
	if root == nil {
		lk.Release()
		return nil, ErrAggregateNotFound{name}
	}
	if expected.Defined() && !expected.Matches(actual) {
		lk.Release()
		return nil, ErrConflictingVersion{Name: name, Expected: expected, Actual: actual}
	}

	return &handle{root: root, name: name, version: actual, lock: lk, sink: r.sink, log: r.logger}, nil
}

func (r *Locking) Create(ctx context.Context, factory keel.FactoryFn) (keel.Handle, error) {

	spnCreate, ctx := opentracing.StartSpanFromContext(ctx, "repository.Locking.Create")
	defer spnCreate.Finish()

	root := factory()
	if root == nil {
		return nil, Error{"create", nil, "factory returned no aggregate root"}
	}

	id, err := r.idFn()
	if err != nil {
		return nil, Error{"create", err, "id factory returned an error when generating an id"}
	}
	name := keel.Ident(fmt.Sprintf("%s/%s", r.kind, id))
	spnCreate.SetTag("aggregate.name", name.String())

	if err := root.SetName(name); err != nil {
		return nil, Error{"create", err, "could not name the new aggregate root"}
	}

	// claimed to close the race against a concurrent create that
	// minted the same identifier
	lk, err := r.claim(ctx, name)
	if err != nil {
		return nil, Error{"create", err, "could not claim aggregate lock"}
	}

	return &handle{root: root, name: name, version: keel.VersionNone, lock: lk, sink: r.sink, log: r.logger}, nil
}

// Save writes the handle's root through the adapter under the
// version observed at load time. Save never releases the lock, the
// unit-of-work boundary does that via Handle.Release, on success
// and on failure alike.
func (r *Locking) Save(ctx context.Context, h keel.Handle) error {

	spnSave, ctx := opentracing.StartSpanFromContext(ctx, "repository.Locking.Save")
	defer spnSave.Finish()

	hdl, err := r.checkout("save", h)
	if err != nil {
		return err
	}
	spnSave.SetTag("aggregate.name", hdl.name.String())

	if err := r.adapter.Persist(ctx, hdl.name, hdl.root, hdl.version); err != nil {
		return Error{"save", err, "persistence adapter rejected the write"}
	}
	if r.forceFlush {
		return r.flush(ctx, "save", hdl)
	}
	return nil
}

// Delete removes the handle's aggregate through the adapter. Same
// locking precondition and flush behaviour as Save.
func (r *Locking) Delete(ctx context.Context, h keel.Handle) error {

	spnDelete, ctx := opentracing.StartSpanFromContext(ctx, "repository.Locking.Delete")
	defer spnDelete.Finish()

	hdl, err := r.checkout("delete", h)
	if err != nil {
		return err
	}
	spnDelete.SetTag("aggregate.name", hdl.name.String())

	if err := r.adapter.Remove(ctx, hdl.name, hdl.version); err != nil {
		return Error{"delete", err, "persistence adapter rejected the remove"}
	}
	if r.forceFlush {
		return r.flush(ctx, "delete", hdl)
	}
	return nil
}

// Exists reports whether the store knows the identifier. It takes
// no lock and gives no freshness guarantee beyond the moment it
// looked.
func (r *Locking) Exists(ctx context.Context, name keel.Ident) bool {
	root, _, err := r.adapter.Find(ctx, name)
	return err == nil && root != nil
}

func (r *Locking) claim(ctx context.Context, name keel.Ident) (keel.Lock, error) {
	claimCtx, cancel := context.WithTimeout(ctx, r.claimTimeout)
	defer cancel()
	return r.locks.Acquire(claimCtx, name)
}

func (r *Locking) checkout(op string, h keel.Handle) (*handle, error) {
	hdl, ok := h.(*handle)
	if !ok {
		return nil, Error{op, nil, fmt.Sprintf("handle of type %T was not issued by this repository", h)}
	}
	if !hdl.holdsLock() {
		return nil, ErrNoLock{Op: op, Name: hdl.name}
	}
	return hdl, nil
}

func (r *Locking) flush(ctx context.Context, op string, hdl *handle) error {
	if err := r.adapter.Flush(ctx); err != nil {
		if xerrors.Is(err, storage.ErrStaleVersion) {
			return ErrConflictingVersion{Name: hdl.name, Expected: hdl.version, Actual: keel.VersionNone}
		}
		return Error{op, err, "store rejected the flushed unit of work"}
	}
	return nil
}

// randomHexID is the default id factory, 12 random bytes hex encoded.
func randomHexID() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{})          {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(...interface{})           {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warn(...interface{})           {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Error(...interface{})          {}
func (nopLogger) Errorf(string, ...interface{}) {}
