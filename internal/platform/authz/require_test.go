package authz

import (
	"context"
	"errors"
	"testing"

	"projecthub/internal/access"
	identitydomain "projecthub/internal/identity/domain"
	"projecthub/internal/server/middleware"
)

func TestRequirePrincipal(t *testing.T) {
	if _, err := RequirePrincipal(context.Background()); !errors.Is(err, access.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated on bare context", err)
	}

	p := &identitydomain.Principal{ID: "u1", Status: identitydomain.StatusActive}
	ctx := middleware.WithIdentity(context.Background(), p, "s1")
	got, err := RequirePrincipal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u1" {
		t.Errorf("principal = %q, want u1", got.ID)
	}
}

func TestRequireAdministrator(t *testing.T) {
	standard := &identitydomain.Principal{ID: "u1", Role: identitydomain.RoleStandard}
	ctx := middleware.WithIdentity(context.Background(), standard, "s1")
	if _, err := RequireAdministrator(ctx); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden for standard role", err)
	}

	admin := &identitydomain.Principal{ID: "u2", Role: identitydomain.RoleAdministrator}
	ctx = middleware.WithIdentity(context.Background(), admin, "s2")
	if _, err := RequireAdministrator(ctx); err != nil {
		t.Fatalf("err = %v, want nil for administrator", err)
	}
}
