package notifications

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// NotificationApp defines what the handlers need from the notifications application
type NotificationApp interface {
	Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type Handler struct {
	app NotificationApp
	rnd *render.Render
}

func NewHandler(app NotificationApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Create handles POST /api/notifications (admin only)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	n, err := h.app.Create(r.Context(), req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.Notification{"notification": n})
}

// List handles GET /api/notifications?unread=true&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	limit, err := httpx.QueryInt(r, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	result, err := h.app.List(r.Context(), user.ID, ListFilter{UnreadOnly: unread, Limit: limit})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if result.Notifications == nil {
		result.Notifications = []models.Notification{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, result)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	n, err := h.app.UnreadCount(r.Context(), user.ID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]int{"unread_count": n})
}

// MarkRead handles POST /api/notifications/{notificationID}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, err := httpx.URLUUID(r, "notificationID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	n, err := h.app.MarkRead(r.Context(), user.ID, id)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.Notification{"notification": n})
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	n, err := h.app.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]int{"marked": n})
}
