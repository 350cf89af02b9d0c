package repository

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/lock"
	"github.com/keel-framework/go-keel/framework/storage/memory"
	test "github.com/keel-framework/go-keel/framework/test_helper"
)

type rejectingSink struct {
	calls int
}

func (s *rejectingSink) Publish(context.Context, keel.Event) error {
	s.calls++
	return errors.New("sink is down")
}

func Test_Handle_ApplyRoutesThroughRootAndSink(t *testing.T) {
	var (
		ctx  = context.Background()
		sink = &recordingSink{}
		repo = NewEmptyMemory("widget", WithEventSink(sink))
	)

	h, err := repo.Create(ctx, newWidget)
	test.H(t).IsNil(err)
	defer h.Release()

	test.H(t).IsNil(h.Apply(ctx, &clicked{N: 2}))
	test.H(t).IsNil(h.Apply(ctx, &clicked{N: 1}))

	test.H(t).IntEql(h.Root().(*widget).Clicks, 3)
	test.H(t).IntEql(len(sink.evs), 2)
}

func Test_Handle_ApplyRejectedEventDoesNotReachTheSink(t *testing.T) {
	var (
		ctx  = context.Background()
		sink = &recordingSink{}
		repo = NewEmptyMemory("widget", WithEventSink(sink))
	)

	h, err := repo.Create(ctx, newWidget)
	test.H(t).IsNil(err)
	defer h.Release()

	type unknownEvent struct{}
	test.H(t).NotNil(h.Apply(ctx, &unknownEvent{}))
	test.H(t).IntEql(len(sink.evs), 0)
}

func Test_Handle_SinkFailureDoesNotFailTheUnitOfWork(t *testing.T) {
	var (
		ctx  = context.Background()
		sink = &rejectingSink{}
		repo = NewEmptyMemory("widget", WithEventSink(sink))
	)

	h, err := repo.Create(ctx, newWidget)
	test.H(t).IsNil(err)
	defer h.Release()

	test.H(t).IsNil(h.Apply(ctx, &clicked{N: 1}))
	test.H(t).IntEql(sink.calls, 1)
	test.H(t).IsNil(repo.Save(ctx, h))
}

func Test_Handle_ReleaseIsIdempotent(t *testing.T) {
	var (
		ctx   = context.Background()
		locks = lock.NewExclusive()
		repo  = New("widget", memory.NewEmptyAdapter(), locks)
	)

	h, err := repo.Create(ctx, newWidget)
	test.H(t).IsNil(err)
	test.H(t).IntEql(len(locks.Held("*")), 1)

	h.Release()
	h.Release() // safe no-op
	test.H(t).IntEql(len(locks.Held("*")), 0)
}
