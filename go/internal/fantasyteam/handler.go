package fantasyteam

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// FantasyTeamApp defines what the handlers need from the fantasy team application
type FantasyTeamApp interface {
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	UpdateFantasyTeam(ctx context.Context, userID, teamID uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error)
	Standings(ctx context.Context, leagueID uuid.UUID) ([]models.Standing, error)
}

type Handler struct {
	app FantasyTeamApp
	rnd *render.Render
}

func NewHandler(app FantasyTeamApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Get handles GET /api/teams/{teamID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	team, err := h.app.GetFantasyTeam(r.Context(), teamID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.FantasyTeam{"team": team})
}

// ListByLeague handles GET /api/leagues/{leagueID}/teams
func (h *Handler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	teams, err := h.app.GetFantasyTeamsByLeague(r.Context(), leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if teams == nil {
		teams = []models.FantasyTeam{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.FantasyTeam{"teams": teams})
}

// Update handles PATCH /api/teams/{teamID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	teamID, err := httpx.URLUUID(r, "teamID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req UpdateFantasyTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	team, err := h.app.UpdateFantasyTeam(r.Context(), user.ID, teamID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.FantasyTeam{"team": team})
}

// Standings handles GET /api/leagues/{leagueID}/standings
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	standings, err := h.app.Standings(r.Context(), leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.Standing{"standings": standings})
}
