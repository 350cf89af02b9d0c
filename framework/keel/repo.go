package keel

import "context"

// Repo frames all the behaviours the command handling layer needs
// to check out an aggregate, mutate it and write it back without
// being concerned with storage or locking.
//
// Load and Create return with the identifier's lock held, the
// returned Handle must be released at the unit-of-work boundary.
// Save and Delete require that lock to still be held and never
// release it themselves.
type Repo interface {
	Load(ctx context.Context, name Ident, expected Version) (Handle, error)
	Create(ctx context.Context, factory FactoryFn) (Handle, error)

	Save(ctx context.Context, h Handle) error
	Delete(ctx context.Context, h Handle) error

	Exists(ctx context.Context, name Ident) bool
}
