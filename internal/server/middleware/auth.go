package middleware

import (
	"context"
	"net/http"
	"strings"

	identitydomain "projecthub/internal/identity/domain"
	"projecthub/internal/security"
)

const bearerPrefix = "bearer "

// PrincipalResolver re-reads the principal behind a validated token so role
// changes, account disables, and session revocations apply mid-session.
type PrincipalResolver interface {
	Resolve(ctx context.Context, sessionID, principalID string) (*identitydomain.Principal, error)
}

// RequireAuth validates the Bearer access token, resolves the live principal,
// and stores both in the request context. Requests without a valid token get
// 401; routes that stay public are simply not wrapped.
func RequireAuth(tokens *security.TokenProvider, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}
			sessionID, principalID, err := tokens.ValidateAccess(token)
			if err != nil {
				unauthorized(w)
				return
			}
			p, err := resolver.Resolve(r.Context(), sessionID, principalID)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), p, sessionID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"missing or invalid authorization"}`))
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
