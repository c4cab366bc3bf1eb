package player

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// PlayerApp defines what the handlers need from the player application
type PlayerApp interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	Search(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error)
	ListAvailable(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error)
}

type Handler struct {
	app PlayerApp
	rnd *render.Render
}

func NewHandler(app PlayerApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Search handles GET /api/players?name=&position=&team=&limit=&offset=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt(r, "limit", defaultSearchLimit, 1, maxSearchLimit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	offset, err := httpx.QueryInt(r, "offset", 0, 0, 10000)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	q := r.URL.Query()
	players, err := h.app.Search(r.Context(), SearchPlayersRequest{
		Name:     q.Get("name"),
		Position: models.Position(q.Get("position")),
		NFLTeam:  q.Get("team"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.Player{"players": players})
}

// Get handles GET /api/players/{playerID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, err := httpx.URLUUID(r, "playerID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	p, err := h.app.GetPlayer(r.Context(), playerID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.Player{"player": p})
}

// Available handles GET /api/leagues/{leagueID}/players/available
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", defaultSearchLimit, 1, maxSearchLimit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	players, err := h.app.ListAvailable(r.Context(), leagueID, models.Position(r.URL.Query().Get("position")), limit)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.Player{"players": players})
}
