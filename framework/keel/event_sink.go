package keel

import "context"

// EventSink receives domain events as they are applied to an
// aggregate through its Handle. The repository core treats the
// sink as fire-and-forget, a Publish error is logged and never
// fails the surrounding unit of work.
type EventSink interface {
	Publish(context.Context, Event) error
}
