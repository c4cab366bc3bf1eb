package roster

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// RosterApp defines what the handlers need from the roster application
type RosterApp interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error)
	AddFreeAgent(ctx context.Context, userID, teamID uuid.UUID, req AddPlayerRequest) (*models.Roster, error)
	DropPlayer(ctx context.Context, userID, teamID, playerID uuid.UUID) error
	MovePlayer(ctx context.Context, userID, teamID, playerID uuid.UUID, req MovePlayerRequest) (*models.Roster, error)
}

type Handler struct {
	app RosterApp
	rnd *render.Render
}

func NewHandler(app RosterApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Get handles GET /api/teams/{teamID}/roster
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	entries, err := h.app.GetTeamRoster(r.Context(), teamID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if entries == nil {
		entries = []models.RosterPlayer{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.RosterPlayer{"roster": entries})
}

// Add handles POST /api/teams/{teamID}/roster
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req AddPlayerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	entry, err := h.app.AddFreeAgent(r.Context(), user.ID, teamID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.Roster{"entry": entry})
}

// Drop handles DELETE /api/teams/{teamID}/roster/{playerID}
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	teamID, playerID, err := teamAndPlayer(r)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if err := h.app.DropPlayer(r.Context(), user.ID, teamID, playerID); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move handles PATCH /api/teams/{teamID}/roster/{playerID}
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	teamID, playerID, err := teamAndPlayer(r)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req MovePlayerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	entry, err := h.app.MovePlayer(r.Context(), user.ID, teamID, playerID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.Roster{"entry": entry})
}

func teamAndPlayer(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	playerID, err := httpx.URLUUID(r, "playerID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return teamID, playerID, nil
}
