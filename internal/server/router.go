// Package server assembles the HTTP API: routing, authentication middleware,
// and request plumbing around the domain services.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	audithandler "projecthub/internal/audit/handler"
	granthandler "projecthub/internal/grant/handler"
	healthhandler "projecthub/internal/health/handler"
	identityhandler "projecthub/internal/identity/handler"
	membershiphandler "projecthub/internal/membership/handler"
	projecthandler "projecthub/internal/project/handler"
	"projecthub/internal/security"
	"projecthub/internal/server/middleware"
	taskhandler "projecthub/internal/task/handler"
)

// Handlers collects the per-area HTTP handlers the router mounts.
type Handlers struct {
	Identity   *identityhandler.Handler
	Project    *projecthandler.Handler
	Membership *membershiphandler.Handler
	Grant      *granthandler.Handler
	Task       *taskhandler.Handler
	Audit      *audithandler.Handler
	Health     *healthhandler.Handler
}

// NewRouter builds the chi router. Auth routes and health stay public;
// everything else sits behind bearer authentication with live principal
// resolution.
func NewRouter(tokens *security.TokenProvider, resolver middleware.PrincipalResolver, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	h.Health.Mount(r)
	h.Identity.MountPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, resolver))
		h.Identity.MountProtected(r)
		h.Project.Mount(r)
		h.Membership.Mount(r)
		h.Grant.Mount(r)
		h.Task.Mount(r)
		h.Audit.Mount(r)
	})

	return r
}
