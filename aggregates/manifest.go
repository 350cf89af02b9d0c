package aggregates

import (
	"fmt"
	"reflect"

	"github.com/keel-framework/go-keel/framework/keel"
)

var DefaultManifest = NewManifest()

func NewManifest() keel.AggregateManifest {
	return &manifest{make(map[string]reflect.Type)}
}

// Register takes a Zero Value of an aggregate and stores
// it in the manifest map for later lookup with ForKind
// which will return a copy.
func Register(kind string, agg keel.Aggregate) error {
	return DefaultManifest.Register(kind, agg)
}

type manifest struct {
	m map[string]reflect.Type
}

func (m *manifest) Register(kind string, agg keel.Aggregate) error {
	if existing, exists := m.m[kind]; exists {
		return fmt.Errorf("can't register aggregate %s at %s, kind already bound to %s", reflect.TypeOf(agg), kind, existing)
	}
	m.m[kind] = m.toType(agg)
	return nil
}

// ForKind looks up the reflect.Type registered for the kind given and
// constructs a new zero value of that type using the reflect package.
//
// A pointer to that type is returned cast to the keel.Aggregate interface,
// it is important that the type given defines its methods with a pointer
// receiver to ensure that types returned by this function correctly
// implement the keel.Aggregate interface.
func (m *manifest) ForKind(kind string) (keel.Aggregate, error) {
	if et, exists := m.m[kind]; exists {
		return reflect.New(et).Elem().Addr().Interface().(keel.Aggregate), nil
	}
	return nil, nil
}

// toType takes an Aggregate (or pointer to aggregate) and returns its
// reflect.Type, this type is used to later reconstruct an empty zero valued
// instance of this type when looking up with ForKind.
//
// Whilst it is required for correctness that Aggregate defines its methods
// on its pointer type, this function accepts both, and unwraps them as
// appropriate.
func (m *manifest) toType(t keel.Aggregate) reflect.Type {
	var v = reflect.ValueOf(t)
	if reflect.Ptr == v.Kind() || reflect.Interface == v.Kind() {
		v = v.Elem()
	}
	return v.Type()
}
