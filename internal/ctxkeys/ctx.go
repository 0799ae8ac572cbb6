package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity returns the authenticated participant address, or "" if none.
func Identity(ctx context.Context) string {
	identity, _ := ctx.Value(IdentityKey).(string)
	return identity
}

func WithIdentity(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, IdentityKey, address)
}
