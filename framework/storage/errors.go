package storage

import (
	"golang.org/x/xerrors"
)

// Sentinels shared by every persistence adapter. The repository
// inspects these with xerrors.Is to map store failures onto its own
// error taxonomy, adapters wrap them with whatever context they
// have at hand.
var (
	// ErrStaleVersion is surfaced at flush time when a buffered
	// write carries a version that no longer matches the store.
	ErrStaleVersion = xerrors.New("storage: version is stale")

	// ErrDuplicateIdent is surfaced at flush time when an unversioned
	// write lands on an identifier the store already has.
	ErrDuplicateIdent = xerrors.New("storage: identifier already taken")
)
