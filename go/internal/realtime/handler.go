package realtime

import (
	"net/http"

	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// Handler serves the websocket endpoint
type Handler struct {
	hub *Hub
	rnd *render.Render
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, rnd *render.Render) *Handler {
	return &Handler{hub: hub, rnd: rnd}
}

// Connect upgrades an authenticated request. GET /ws?token=...
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(h.rnd, w, r, apperr.ErrUnauthorized)
		return
	}

	// The upgrader has already answered the request when this fails.
	if err := h.hub.Serve(w, r, user); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to upgrade websocket connection")
	}
}

// Stats reports hub connection counts. GET /ws/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	_ = h.rnd.JSON(w, http.StatusOK, h.hub.Stats())
}
