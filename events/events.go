package events

import (
	"fmt"
	"reflect"

	"github.com/keel-framework/go-keel/framework/keel"
)

var Manifest = map[string]reflect.Type{}

func Register(ev keel.Event) error {
	evName := reflect.TypeOf(ev).Elem().Name()
	if _, exists := Manifest[evName]; exists {
		return fmt.Errorf("can't register event %s, already registered", evName)
	}
	Manifest[evName] = reflect.TypeOf(ev)
	return nil
}
