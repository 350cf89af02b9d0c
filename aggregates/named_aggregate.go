package aggregates

import (
	"github.com/pkg/errors"

	"github.com/keel-framework/go-keel/framework/keel"
)

// NamedAggregate is intended to be embedded into aggregate structs
// to satisfy the naming half of the keel.Aggregate interface. The
// name is kept out of the serialized snapshot on purpose, storage
// adapters re-apply it after rehydration.
type NamedAggregate struct {
	name keel.Ident
}

func (na *NamedAggregate) Name() keel.Ident {
	return na.name
}

func (na *NamedAggregate) SetName(name keel.Ident) error {
	if na.name != "" && na.name != name {
		return errors.Errorf("aggregate already named %q, renaming to %q is not supported", na.name, name)
	}
	na.name = name
	return nil
}
