package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/platform/authz"
	"projecthub/internal/project/service"
	"projecthub/internal/server/respond"
)

// Handler exposes project lifecycle and listing over HTTP.
type Handler struct {
	projects *service.Service
}

func New(projects *service.Service) *Handler {
	return &Handler{projects: projects}
}

func (h *Handler) Mount(r chi.Router) {
	r.Post("/projects", h.create)
	r.Get("/projects", h.list)
	r.Get("/projects/{projectID}", h.get)
	r.Delete("/projects/{projectID}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	proj, err := h.projects.Create(r.Context(), p.ID, req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, proj)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	projects, err := h.projects.List(r.Context(), p.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, projects)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	proj, err := h.projects.Get(r.Context(), p.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, proj)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.projects.Delete(r.Context(), p.ID, chi.URLParam(r, "projectID")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}
