package redis

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis"
	opentracing "github.com/opentracing/opentracing-go"
	"golang.org/x/xerrors"

	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/storage"
)

const keyPrefix = "keel:aggregate:"

// envelope is the stored shape, the version rides alongside the
// snapshot so the optimistic check and the state live or die in one
// key.
type envelope struct {
	Version keel.Version    `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Adapter is a redis-backed keel.PersistenceAdapter. Writes buffer
// locally until Flush, which replays them under WATCH so the version
// check is atomic in the store, a concurrent writer fails the
// transaction rather than being silently overwritten.
//
// Identifiers must carry a kind segment ("kind/id") so Find can
// materialize roots through the aggregate manifest.
type Adapter struct {
	client   *redis.Client
	manifest keel.AggregateManifest

	mu      sync.Mutex
	pending []write
}

type write struct {
	name   keel.Ident
	state  []byte
	seen   keel.Version
	remove bool
}

func NewAdapter(client *redis.Client, manifest keel.AggregateManifest) *Adapter {
	return &Adapter{client: client, manifest: manifest}
}

func (a *Adapter) Find(ctx context.Context, name keel.Ident) (keel.Aggregate, keel.Version, error) {

	spnFind, _ := opentracing.StartSpanFromContext(ctx, "redisstore.Find")
	spnFind.SetTag("aggregate.name", name.String())
	defer spnFind.Finish()

	b, err := a.client.Get(keyPrefix + name.String()).Bytes()
	if err == redis.Nil {
		return nil, keel.VersionNone, nil
	}
	if err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}

	root, err := a.manifest.ForKind(name.Kind())
	if err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}
	if root == nil {
		return nil, keel.VersionNone, Error{"find", xerrors.Errorf("no aggregate registered for kind %q", name.Kind())}
	}
	if err := json.Unmarshal(env.State, root); err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}
	if err := root.SetName(name); err != nil {
		return nil, keel.VersionNone, Error{"find", err}
	}
	return root, env.Version, nil
}

func (a *Adapter) Persist(ctx context.Context, name keel.Ident, root keel.Aggregate, seen keel.Version) error {
	state, err := json.Marshal(root)
	if err != nil {
		return Error{"persist", err}
	}
	a.mu.Lock()
	a.pending = append(a.pending, write{name: name, state: state, seen: seen})
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Remove(ctx context.Context, name keel.Ident, seen keel.Version) error {
	a.mu.Lock()
	a.pending = append(a.pending, write{name: name, seen: seen, remove: true})
	a.mu.Unlock()
	return nil
}

// Flush replays the buffered writes one WATCHed transaction each.
// The buffer is discarded whether the flush commits or fails, a
// failed unit of work is not retried by the adapter.
func (a *Adapter) Flush(ctx context.Context) error {

	spnFlush, _ := opentracing.StartSpanFromContext(ctx, "redisstore.Flush")
	defer spnFlush.Finish()

	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, w := range pending {
		if err := a.apply(w); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) apply(w write) error {
	var k = keyPrefix + w.name.String()

	err := a.client.Watch(func(tx *redis.Tx) error {

		var (
			current keel.Version = keel.VersionNone
			exists  bool
		)
		b, err := tx.Get(k).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err != redis.Nil {
			var env envelope
			if err := json.Unmarshal(b, &env); err != nil {
				return err
			}
			current, exists = env.Version, true
		}

		switch {
		case w.remove:
			if !exists || !w.seen.Matches(current) {
				return xerrors.Errorf("remove %s: %w", w.name, storage.ErrStaleVersion)
			}
		case !w.seen.Defined():
			if exists {
				return xerrors.Errorf("insert %s: %w", w.name, storage.ErrDuplicateIdent)
			}
		default:
			if !exists || !w.seen.Matches(current) {
				return xerrors.Errorf("update %s: %w", w.name, storage.ErrStaleVersion)
			}
		}

		nextVersion := keel.Version(1)
		if current.Defined() {
			nextVersion = current + 1
		}

		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			if w.remove {
				pipe.Del(k)
				return nil
			}
			next, err := json.Marshal(envelope{Version: nextVersion, State: w.state})
			if err != nil {
				return err
			}
			pipe.Set(k, next, 0)
			return nil
		})
		return err
	}, k)

	if err == redis.TxFailedErr {
		// somebody touched the key between WATCH and EXEC, to the
		// caller this is the same stale-version story
		return Error{"flush", xerrors.Errorf("%s: %w", w.name, storage.ErrStaleVersion)}
	}
	if err != nil {
		return Error{"flush", err}
	}
	return nil
}
