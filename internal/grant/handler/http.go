package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/access"
	"projecthub/internal/grant/service"
	"projecthub/internal/platform/authz"
	"projecthub/internal/server/respond"
)

// Handler exposes module grant administration over HTTP.
type Handler struct {
	grants *service.Service
}

func New(grants *service.Service) *Handler {
	return &Handler{grants: grants}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/projects/{projectID}/grants", h.list)
	r.Put("/projects/{projectID}/grants", h.grant)
	r.Delete("/projects/{projectID}/grants/{principalID}/{module}", h.revoke)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	gs, err := h.grants.List(r.Context(), p.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, gs)
}

func (h *Handler) grant(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		PrincipalID string `json:"principal_id"`
		Module      string `json:"module"`
		Level       string `json:"level"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	g, err := h.grants.Grant(r.Context(), p.ID, chi.URLParam(r, "projectID"),
		req.PrincipalID, access.Module(req.Module), access.Level(req.Level))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, g)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	err = h.grants.Revoke(r.Context(), p.ID, chi.URLParam(r, "projectID"),
		chi.URLParam(r, "principalID"), access.Module(chi.URLParam(r, "module")))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}
