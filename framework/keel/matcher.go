package keel

// Matcher decides whether a given identifier matches a pattern.
// Used by diagnostic surfaces that enumerate identifiers, never
// on the hot path of a repository operation.
type Matcher interface {
	DoesMatch(interface{}) (bool, error)
}
