package keel

import "context"

// Lock is an advisory claim on one aggregate identifier. It is
// owned by whichever unit of work acquired it and must be released
// exactly once at unit-of-work completion, success or failure.
// Release is idempotent, releasing twice is a safe no-op.
type Lock interface {
	Release()
}

// LockFactory hands out locks keyed by aggregate identifier.
// Acquire may block the caller, a bounded wait is expressed via
// the context deadline after which Acquire fails rather than
// blocking forever.
//
// Locks are process-local. Consistency across processes relies
// entirely on the backing store's own version check, never on
// anything acquired here.
type LockFactory interface {
	Acquire(context.Context, Ident) (Lock, error)
}
