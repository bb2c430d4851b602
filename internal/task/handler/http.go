package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/platform/authz"
	"projecthub/internal/server/respond"
	"projecthub/internal/task/domain"
	"projecthub/internal/task/service"
)

// Handler exposes tasks over HTTP.
type Handler struct {
	tasks *service.Service
}

func New(tasks *service.Service) *Handler {
	return &Handler{tasks: tasks}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/projects/{projectID}/tasks", h.list)
	r.Post("/projects/{projectID}/tasks", h.create)
	r.Get("/tasks/{taskID}", h.get)
	r.Put("/tasks/{taskID}", h.update)
	r.Delete("/tasks/{taskID}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	ts, err := h.tasks.ListByProject(r.Context(), p.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Title      string `json:"title"`
		AssigneeID string `json:"assignee_id"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	t, err := h.tasks.Create(r.Context(), p.ID, chi.URLParam(r, "projectID"), req.Title, req.AssigneeID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	t, err := h.tasks.Get(r.Context(), p.ID, chi.URLParam(r, "taskID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Title      string `json:"title"`
		Status     string `json:"status"`
		AssigneeID string `json:"assignee_id"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	t, err := h.tasks.Update(r.Context(), p.ID, chi.URLParam(r, "taskID"), req.Title, domain.Status(req.Status), req.AssigneeID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.tasks.Delete(r.Context(), p.ID, chi.URLParam(r, "taskID")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}
