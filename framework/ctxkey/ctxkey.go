package ctxkey

import "context"

type contextKey string

func (c contextKey) String() string {
	return "keel uow " + string(c)
}

var (
	contextKeyOwner = contextKey("owner")
)

// WithOwner tags the context with the unit-of-work owner token.
// Lock implementations use the token to recognise re-acquisition
// by the same unit of work.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, contextKeyOwner, owner)
}

// Owner gets the unit-of-work owner token from the context. If none
// is present the empty string is returned and lock implementations
// must treat the caller as anonymous, every anonymous acquisition
// is its own owner.
func Owner(ctx context.Context) string {
	owner, ok := ctx.Value(contextKeyOwner).(string)
	if !ok {
		return ""
	}
	return owner
}
