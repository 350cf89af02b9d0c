package keel

// Aggregate interface is simple, it need only ReactTo
// events. This Aggregate interface is only relevant to the
// write side of the application.
//
// Name is used by the repository to address aggregates in
// the backing store. Newly created aggregates receive their
// name via SetName. Renaming aggregates is not supported.
type Aggregate interface {
	ReactTo(Event) error

	Name() Ident
	SetName(Ident) error
}

// FactoryFn constructs a zero-valued aggregate root ready to
// be named and owned by a Handle. Used by Repo.Create.
type FactoryFn func() Aggregate
