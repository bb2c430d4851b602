// Package authz provides request-context authorization helpers shared by
// HTTP handlers.
package authz

import (
	"context"

	"projecthub/internal/access"
	identitydomain "projecthub/internal/identity/domain"
	"projecthub/internal/server/middleware"
)

// RequirePrincipal returns the authenticated principal from context, or
// ErrUnauthenticated when the request carried none.
func RequirePrincipal(ctx context.Context) (*identitydomain.Principal, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, access.ErrUnauthenticated
	}
	return p, nil
}

// RequireAdministrator returns the authenticated principal when it holds the
// administrator role; ErrForbidden otherwise.
func RequireAdministrator(ctx context.Context) (*identitydomain.Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdministrator() {
		return nil, access.ErrForbidden
	}
	return p, nil
}
