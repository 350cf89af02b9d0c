package keel

// IDFn is a function that should generate IDs. This is primarily
// used by repositories to mint an identifier for newly created
// aggregates where no ID has been provided.
type IDFn func() (string, error)
