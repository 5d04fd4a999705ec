// Package ctxutil carries the acting profile's identity through a request.
// It sits below every other internal package and imports nothing of them.
package ctxutil

import "context"

// ActorKey keys the acting profile ID inside a context.
type ActorKey struct{}

// WithActorID embeds the acting profile's ID. The audit log reads it back
// when recording who changed what.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the embedded actor ID, or "" when none was set.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
