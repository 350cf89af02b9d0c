package lock

import (
	"context"
	"testing"
	"time"

	"github.com/keel-framework/go-keel/framework/ctxkey"
	"github.com/keel-framework/go-keel/framework/keel"
)

func Test_Exclusive_SecondAcquirerBlocksUntilRelease(t *testing.T) {
	var (
		factory = NewExclusive()
		name    = keel.Ident("listing/123")
		ctx     = context.Background()
	)

	first, err := factory.Acquire(ctx, name)
	if err != nil {
		t.Fatal("could not acquire uncontended lock:", err)
	}

	acquired := make(chan keel.Lock)
	go func() {
		second, err := factory.Acquire(ctx, name)
		if err != nil {
			t.Error("second acquire failed:", err)
		}
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	first.Release()

	select {
	case second := <-acquired:
		second.Release()
	case <-time.After(time.Second):
		t.Fatal("second acquire still blocked after release")
	}
}

func Test_Exclusive_AcquireRespectsContextDeadline(t *testing.T) {
	var (
		factory = NewExclusive()
		name    = keel.Ident("listing/123")
	)

	held, err := factory.Acquire(context.Background(), name)
	if err != nil {
		t.Fatal("could not acquire uncontended lock:", err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = factory.Acquire(ctx, name)
	if err == nil {
		t.Fatal("expected acquire to fail when the deadline expires")
	}
}

func Test_Exclusive_ReentrantForSameOwner(t *testing.T) {
	var (
		factory = NewExclusive()
		name    = keel.Ident("listing/123")
		ctx     = ctxkey.WithOwner(context.Background(), "uow-1")
	)

	outer, err := factory.Acquire(ctx, name)
	if err != nil {
		t.Fatal("could not acquire uncontended lock:", err)
	}

	// same owner, must not block
	done := make(chan keel.Lock)
	go func() {
		inner, err := factory.Acquire(ctx, name)
		if err != nil {
			t.Error("reentrant acquire failed:", err)
		}
		done <- inner
	}()

	var inner keel.Lock
	select {
	case inner = <-done:
	case <-time.After(time.Second):
		t.Fatal("reentrant acquire blocked")
	}

	// still held until every acquisition releases
	inner.Release()
	if got := len(factory.Held("*")); got != 1 {
		t.Fatalf("expected 1 held lock after inner release, got %d", got)
	}
	outer.Release()
	if got := len(factory.Held("*")); got != 0 {
		t.Fatalf("expected no held locks after outer release, got %d", got)
	}
}

func Test_Exclusive_AnonymousOwnersAreDistinct(t *testing.T) {
	var (
		factory = NewExclusive()
		name    = keel.Ident("listing/123")
	)

	held, err := factory.Acquire(context.Background(), name)
	if err != nil {
		t.Fatal("could not acquire uncontended lock:", err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := factory.Acquire(ctx, name); err == nil {
		t.Fatal("anonymous re-acquire should contend, not re-enter")
	}
}

func Test_Exclusive_ReleaseIsIdempotent(t *testing.T) {
	var (
		factory = NewExclusive()
		name    = keel.Ident("listing/123")
	)

	held, err := factory.Acquire(context.Background(), name)
	if err != nil {
		t.Fatal("could not acquire uncontended lock:", err)
	}
	held.Release()
	held.Release() // safe no-op

	if again, err := factory.Acquire(context.Background(), name); err != nil {
		t.Fatal("lock not available after double release:", err)
	} else {
		again.Release()
	}
}

func Test_Exclusive_HeldFiltersByPattern(t *testing.T) {
	var (
		factory = NewExclusive()
		ctx     = context.Background()
	)

	a, _ := factory.Acquire(ctx, keel.Ident("listing/1"))
	b, _ := factory.Acquire(ctx, keel.Ident("session/1"))
	defer a.Release()
	defer b.Release()

	if got := len(factory.Held("listing/*")); got != 1 {
		t.Fatalf("expected 1 listing lock, got %d", got)
	}
	if got := len(factory.Held("*")); got != 2 {
		t.Fatalf("expected 2 locks total, got %d", got)
	}
}

func Test_Null_NeverBlocks(t *testing.T) {
	var (
		factory = NewNull()
		name    = keel.Ident("listing/123")
		ctx     = context.Background()
	)

	first, err := factory.Acquire(ctx, name)
	if err != nil {
		t.Fatal("null acquire returned error:", err)
	}
	second, err := factory.Acquire(ctx, name)
	if err != nil {
		t.Fatal("second null acquire returned error:", err)
	}
	first.Release()
	second.Release()
	second.Release()
}
