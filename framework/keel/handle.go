package keel

import "context"

// Handle owns one aggregate root for the duration of a unit of
// work. It records the version observed at load time (VersionNone
// for newly created roots) and exposes the root for mutation and
// for handoff to the persistence adapter.
//
// Release returns the identifier's lock and ends the unit of work,
// callers should defer it immediately after Load or Create. It is
// idempotent.
type Handle interface {
	Root() Aggregate
	Name() Ident
	Version() Version

	Apply(context.Context, Event) error

	Release()
}
