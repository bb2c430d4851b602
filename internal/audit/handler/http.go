package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/audit"
	auditdomain "projecthub/internal/audit/domain"
	"projecthub/internal/platform/authz"
	"projecthub/internal/server/respond"
)

// Handler exposes the per-project audit trail over HTTP.
type Handler struct {
	audits *audit.Service
}

func New(audits *audit.Service) *Handler {
	return &Handler{audits: audits}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/projects/{projectID}/audit", h.list)
}

type recordResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	PrincipalID string          `json:"principal_id"`
	Module      string          `json:"module"`
	Action      string          `json:"action"`
	EntityKind  string          `json:"entity_kind"`
	EntityID    string          `json:"entity_id"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type listResponse struct {
	Records    []recordResponse `json:"records"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func toRecordResponse(r *auditdomain.Record) recordResponse {
	return recordResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		PrincipalID: r.PrincipalID,
		Module:      string(r.Module),
		Action:      string(r.Action),
		EntityKind:  r.EntityKind,
		EntityID:    r.EntityID,
		Before:      r.Before,
		After:       r.After,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	cursor := r.URL.Query().Get("cursor")

	records, next, err := h.audits.List(r.Context(), p.ID, chi.URLParam(r, "projectID"), limit, cursor)
	if err != nil {
		respond.Error(w, err)
		return
	}
	resp := listResponse{Records: make([]recordResponse, 0, len(records)), NextCursor: next}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	respond.JSON(w, http.StatusOK, resp)
}
