package keel

import "strings"

// Ident is a typealias for string to help keep the internals
// of the library clear about whether we're dealing with any
// old string or specifically an aggregate identifier.
//
// Identifiers minted by the framework follow the convention
// "kind/id" so that storage adapters can recover the aggregate
// kind from the identifier alone.
type Ident string

func (i Ident) Kind() string {
	return strings.Split(string(i), "/")[0]
}

func (i Ident) ID() string {
	if parts := strings.SplitN(string(i), "/", 2); len(parts) == 2 {
		return parts[1]
	}
	return string(i)
}

func (i Ident) String() string {
	return string(i)
}
