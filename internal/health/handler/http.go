package handler

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/server/respond"
)

// Handler reports liveness and database reachability.
type Handler struct {
	db *sql.DB
}

func New(db *sql.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/healthz", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	respond.JSON(w, code, map[string]string{"status": status})
}
