package events

import (
	"testing"

	test "github.com/keel-framework/go-keel/framework/test_helper"
)

type dummyEv struct{}

func Test_Events_RegisterEv_TwiceSameEvRaisesError(t *testing.T) {
	test.H(t).ErrEql(Register(&dummyEv{}), nil)
	test.H(t).NotNil(Register(&dummyEv{}))
}
