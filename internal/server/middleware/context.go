package middleware

import (
	"context"

	identitydomain "projecthub/internal/identity/domain"
)

type contextKey struct{ name string }

var (
	principalKey = contextKey{"principal"}
	sessionIDKey = contextKey{"session_id"}
)

// WithIdentity returns a context carrying the resolved principal and session.
// Handlers read these via GetPrincipal and GetSessionID.
func WithIdentity(ctx context.Context, p *identitydomain.Principal, sessionID string) context.Context {
	ctx = context.WithValue(ctx, principalKey, p)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetPrincipal returns the resolved principal from context and true if set.
func GetPrincipal(ctx context.Context) (*identitydomain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*identitydomain.Principal)
	return p, ok && p != nil
}

// GetSessionID returns the session_id from context and true if set.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok && v != ""
}
