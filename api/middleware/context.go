package middleware

import (
	"context"

	"github.com/PHRJr/BuritisProject/pkg/identity"
)

type contextKey string

const (
	ctxIdentity  contextKey = "identity"
	ctxSessionID contextKey = "session_id"
)

// IdentityFromContext returns the identity attached by RequireSession.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	if ctx == nil {
		return identity.Identity{}, false
	}
	v, ok := ctx.Value(ctxIdentity).(identity.Identity)
	return v, ok
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the session identity into the context.
func WithIdentity(ctx context.Context, sessionID string, who identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxIdentity, who)
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
