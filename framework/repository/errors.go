package repository

import (
	"fmt"

	"github.com/keel-framework/go-keel/framework/keel"
)

type Error struct {
	Op  string
	Err error
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("repository: op: %q err: %q msg: %q", e.Op, e.Err, e.Msg)
}

func (e Error) Unwrap() error { return e.Err }

// ErrAggregateNotFound is returned by Load when the identifier is
// unknown to the backing store. The identifier's lock has been
// released by the time this surfaces.
type ErrAggregateNotFound struct {
	Name keel.Ident
}

func (e ErrAggregateNotFound) Error() string {
	return fmt.Sprintf("repository: no aggregate %q", e.Name)
}

// ErrConflictingVersion is returned by Load when the caller's
// expected version differs from the stored one, and by Save and
// Delete when the store's own version check fails at flush time.
// At flush time the store does not report what it holds, Actual is
// VersionNone in that case.
type ErrConflictingVersion struct {
	Name             keel.Ident
	Expected, Actual keel.Version
}

func (e ErrConflictingVersion) Error() string {
	return fmt.Sprintf("repository: conflicting version for %q: expected %s actual %s", e.Name, e.Expected, e.Actual)
}

// ErrNoLock is returned by Save and Delete when the handle's unit
// of work has already released the identifier's lock. This is a
// programming error in the caller, not a condition to retry.
type ErrNoLock struct {
	Op   string
	Name keel.Ident
}

func (e ErrNoLock) Error() string {
	return fmt.Sprintf("repository: %s %q without holding its lock", e.Op, e.Name)
}
