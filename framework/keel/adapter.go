package keel

import "context"

// PersistenceAdapter frames the storage primitives the repository
// needs. Implementations buffer Persist and Remove until Flush,
// which validates the buffered writes against the store's integrity
// constraints and its optimistic version check, surfacing either
// failure synchronously.
//
// Find returns a nil Aggregate and VersionNone when the identifier
// is unknown to the store, absence is not an error at this level.
type PersistenceAdapter interface {
	Find(context.Context, Ident) (Aggregate, Version, error)
	Persist(context.Context, Ident, Aggregate, Version) error
	Remove(context.Context, Ident, Version) error
	Flush(context.Context) error
}
