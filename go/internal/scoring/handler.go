package scoring

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/unrolled/render"
)

// ScoringApp defines what the handlers need from the scoring application
type ScoringApp interface {
	Scoreboard(ctx context.Context, userID, leagueID uuid.UUID, week int) (*LeagueScoreboard, error)
	TeamScores(ctx context.Context, userID, teamID uuid.UUID, week int) ([]PlayerPoints, error)
}

type Handler struct {
	app ScoringApp
	rnd *render.Render
}

func NewHandler(app ScoringApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Scoreboard handles GET /api/leagues/{leagueID}/scores?week=
func (h *Handler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	week, err := httpx.QueryInt(r, "week", 0, 0, maxWeek)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	board, err := h.app.Scoreboard(r.Context(), user.ID, leagueID, week)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, board)
}

// TeamScores handles GET /api/teams/{teamID}/scores?week=
func (h *Handler) TeamScores(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	week, err := httpx.QueryInt(r, "week", 0, 0, maxWeek)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	players, err := h.app.TeamScores(r.Context(), user.ID, teamID, week)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]any{"team_id": teamID, "players": players})
}
