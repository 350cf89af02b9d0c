package keel

import "fmt"

// Version is the optimistic concurrency token observed when an
// aggregate is loaded from a backing store. Versions are assigned
// and advanced by the store alone, this library only carries them
// around and compares them.
//
// The zero of the domain is VersionNone which stands in for both
// "newly created, never persisted" and "no expectation" depending
// on context. All comparison goes through Matches, call sites must
// not compare the underlying integers directly.
type Version int64

// VersionNone is the absent version.
const VersionNone Version = -1

// Defined reports whether the version carries a real store-assigned
// value, as opposed to VersionNone.
func (v Version) Defined() bool {
	return v >= 0
}

// Matches is the single equality rule for versions. Two undefined
// versions match, a defined and an undefined version never match.
func (v Version) Matches(other Version) bool {
	if !v.Defined() || !other.Defined() {
		return !v.Defined() && !other.Defined()
	}
	return v == other
}

func (v Version) String() string {
	if !v.Defined() {
		return "none"
	}
	return fmt.Sprintf("%d", int64(v))
}
