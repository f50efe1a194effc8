// Package identity carries the authenticated caller of a request through a context.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Principal is an opaque authenticated user id.
type Principal uuid.UUID

// Anonymous is the sentinel for an unauthenticated caller.
var Anonymous = Principal(uuid.Nil)

type ctxKey struct{}

func New() Principal { return Principal(uuid.New()) }

func Parse(s string) (Principal, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Anonymous, err
	}
	return Principal(id), nil
}

func (p Principal) IsAnonymous() bool { return p == Anonymous }

func (p Principal) String() string { return uuid.UUID(p).String() }

func (p Principal) MarshalText() ([]byte, error) { return uuid.UUID(p).MarshalText() }

func (p *Principal) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(p).UnmarshalText(b)
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the caller stored in ctx, or Anonymous when there is none.
func FromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Anonymous
	}
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok {
		return Anonymous
	}
	return p
}
