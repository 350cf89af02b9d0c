package keel

// AggregateManifest maps aggregate kinds to zero values of their
// concrete types so that storage adapters can materialize roots
// from serialized snapshots without knowing the types up front.
type AggregateManifest interface {
	Register(string, Aggregate) error
	ForKind(string) (Aggregate, error)
}
