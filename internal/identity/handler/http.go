package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/access"
	identitydomain "projecthub/internal/identity/domain"
	"projecthub/internal/identity/service"
	"projecthub/internal/platform/authz"
	"projecthub/internal/server/middleware"
	"projecthub/internal/server/respond"
)

// Handler exposes authentication and identity administration over HTTP.
type Handler struct {
	auth  *service.AuthService
	admin *service.AdminService
}

func New(auth *service.AuthService, admin *service.AdminService) *Handler {
	return &Handler{auth: auth, admin: admin}
}

// MountPublic registers the unauthenticated auth routes.
func (h *Handler) MountPublic(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
}

// MountProtected registers routes that require a resolved principal.
func (h *Handler) MountProtected(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/me", h.me)
	r.Put("/principals/{principalID}/role", h.setRole)
	r.Put("/principals/{principalID}/department", h.setDepartment)
	r.Put("/principals/{principalID}/status", h.setStatus)
}

type principalResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status"`
}

func toPrincipalResponse(p *identitydomain.Principal) principalResponse {
	return principalResponse{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       string(p.Role),
		Department: p.Department,
		Status:     string(p.Status),
	}
}

type tokenResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func toTokenResponse(pair *service.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Password   string `json:"password"`
		Department string `json:"department"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password, req.Department)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toPrincipalResponse(p))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		respond.Error(w, access.ErrUnauthenticated)
		return
	}
	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, err := h.admin.SetGlobalRole(r.Context(), actor.ID, chi.URLParam(r, "principalID"), identitydomain.GlobalRole(req.Role))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handler) setDepartment(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Department string `json:"department"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, err := h.admin.SetDepartment(r.Context(), actor.ID, chi.URLParam(r, "principalID"), req.Department)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequirePrincipal(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, err := h.admin.SetStatus(r.Context(), actor.ID, chi.URLParam(r, "principalID"), identitydomain.Status(req.Status))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toPrincipalResponse(p))
}
