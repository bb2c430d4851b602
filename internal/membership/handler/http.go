package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/membership/domain"
	"projecthub/internal/membership/service"
	"projecthub/internal/platform/authz"
	"projecthub/internal/server/respond"
)

// Handler exposes project enrollment over HTTP.
type Handler struct {
	memberships *service.Service
}

func New(memberships *service.Service) *Handler {
	return &Handler{memberships: memberships}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/projects/{projectID}/members", h.list)
	r.Post("/projects/{projectID}/members", h.add)
	r.Delete("/projects/{projectID}/members/{principalID}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	ms, err := h.memberships.List(r.Context(), p.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ms)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		PrincipalID string `json:"principal_id"`
		Role        string `json:"role"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	m, err := h.memberships.Add(r.Context(), p.ID, chi.URLParam(r, "projectID"), req.PrincipalID, domain.Role(req.Role))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	err = h.memberships.Remove(r.Context(), p.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "principalID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}
