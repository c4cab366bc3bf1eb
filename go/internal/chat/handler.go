package chat

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// ChatApp defines what the handlers need from the chat application
type ChatApp interface {
	ListRooms(ctx context.Context, userID, leagueID uuid.UUID) ([]models.ChatRoom, error)
	SendMessage(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, req SendMessageRequest) (*models.ChatMessage, error)
	History(ctx context.Context, userID, leagueID uuid.UUID, roomType models.ChatRoomType, q HistoryQuery) (*History, error)
	Search(ctx context.Context, userID, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error)
	React(ctx context.Context, userID, messageID uuid.UUID, req ReactionRequest) ([]models.ChatReactionCount, error)
	Unreact(ctx context.Context, userID, messageID uuid.UUID, emoji string) ([]models.ChatReactionCount, error)
	Typing(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, isTyping bool) error
	Moderate(ctx context.Context, user *models.User, messageID uuid.UUID) error
}

type Handler struct {
	app ChatApp
	rnd *render.Render
}

func NewHandler(app ChatApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// ListRooms handles GET /api/leagues/{leagueID}/chat/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	rooms, err := h.app.ListRooms(r.Context(), user.ID, leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.ChatRoom{"rooms": rooms})
}

// Send handles POST /api/leagues/{leagueID}/chat/{room}/messages
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req SendMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	msg, err := h.app.SendMessage(r.Context(), user, leagueID, roomParam(r), req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.ChatMessage{"message": msg})
}

// History handles GET /api/leagues/{leagueID}/chat/{room}/messages?before=&limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	before, err := httpx.QueryUUID(r, "before")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	history, err := h.app.History(r.Context(), user.ID, leagueID, roomParam(r), HistoryQuery{Before: before, Limit: limit})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, history)
}

// Search handles GET /api/leagues/{leagueID}/chat/search?q=&limit=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	msgs, err := h.app.Search(r.Context(), user.ID, leagueID, r.URL.Query().Get("q"), limit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.ChatMessage{"messages": msgs})
}

// Typing handles POST /api/leagues/{leagueID}/chat/{room}/typing
func (h *Handler) Typing(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req TypingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if err := h.app.Typing(r.Context(), user, leagueID, roomParam(r), req.IsTyping); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// React handles POST /api/chat/messages/{messageID}/reactions
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	messageID, err := httpx.URLUUID(r, "messageID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req ReactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	counts, err := h.app.React(r.Context(), user.ID, messageID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, reactionsResponse(counts))
}

// Unreact handles DELETE /api/chat/messages/{messageID}/reactions/{emoji}
func (h *Handler) Unreact(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	messageID, err := httpx.URLUUID(r, "messageID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	counts, err := h.app.Unreact(r.Context(), user.ID, messageID, chi.URLParam(r, "emoji"))
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, reactionsResponse(counts))
}

// Moderate handles DELETE /api/chat/messages/{messageID}
func (h *Handler) Moderate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	messageID, err := httpx.URLUUID(r, "messageID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if err := h.app.Moderate(r.Context(), user, messageID); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func roomParam(r *http.Request) models.ChatRoomType {
	return models.ChatRoomType(chi.URLParam(r, "room"))
}

func reactionsResponse(counts []models.ChatReactionCount) map[string][]models.ChatReactionCount {
	if counts == nil {
		counts = []models.ChatReactionCount{}
	}
	return map[string][]models.ChatReactionCount{"reactions": counts}
}
