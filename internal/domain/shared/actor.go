package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// Actor is the authenticated caller, used for attribution only.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// WithActor stores the caller identity in ctx
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller identity, or the zero Actor for system calls
func ActorFromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorKey{}).(Actor); ok {
		return actor
	}
	return Actor{}
}
