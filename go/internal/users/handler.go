package users

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// UsersApp defines what the handlers need from the users application
type UsersApp interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// Handler serves the account endpoints
type Handler struct {
	app UsersApp
	rnd *render.Render
}

// NewHandler creates a new users Handler
func NewHandler(app UsersApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	result, err := h.app.Signup(r.Context(), req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	setSessionCookie(w, result.Token, result.ExpiresAt)
	_ = h.rnd.JSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	result, err := h.app.Login(r.Context(), req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	setSessionCookie(w, result.Token, result.ExpiresAt)
	_ = h.rnd.JSON(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	_ = h.rnd.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Refresh handles POST /api/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Refresh(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	setSessionCookie(w, result.Token, result.ExpiresAt)
	_ = h.rnd.JSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// UpdateMe handles PATCH /api/users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	updated, err := h.app.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.User{"user": updated})
}

// DeleteMe handles DELETE /api/users/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if err := h.app.DeleteAccount(r.Context(), user.ID); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
