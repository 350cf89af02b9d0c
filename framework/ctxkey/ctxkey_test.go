package ctxkey

import (
	"context"
	"testing"
)

func Test_ctxkey_Owner(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		res := Owner(context.Background())
		if res != "" {
			t.Fatal("expected anonymous owner, got", res)
		}
	})
	t.Run("override", func(t *testing.T) {
		ctx := WithOwner(context.Background(), "uow-1")
		res := Owner(ctx)
		if res != "uow-1" {
			t.Fatal("expected overridden value, got", res)
		}
	})
}
