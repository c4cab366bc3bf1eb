package leagues

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// LeaguesApp defines what the handlers need from the leagues application
type LeaguesApp interface {
	CreateLeague(ctx context.Context, userID uuid.UUID, req CreateLeagueRequest) (*models.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error)
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
	UpdateSettings(ctx context.Context, userID, leagueID uuid.UUID, req UpdateSettingsRequest) (*models.League, error)
	UpdateStatus(ctx context.Context, userID, leagueID uuid.UUID, req UpdateStatusRequest) (*models.League, error)
	Join(ctx context.Context, userID, leagueID uuid.UUID, req JoinLeagueRequest) (*models.FantasyTeam, error)
}

// Handler serves the league endpoints
type Handler struct {
	app LeaguesApp
	rnd *render.Render
}

// NewHandler creates a new leagues Handler
func NewHandler(app LeaguesApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// RequireMember rejects requests for a {leagueID} the caller does not belong to
func (h *Handler) RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())
		leagueID, err := httpx.URLUUID(r, "leagueID")
		if err != nil {
			httpx.Error(h.rnd, w, r, err)
			return
		}
		if err := h.app.RequireMember(r.Context(), leagueID, user.ID); err != nil {
			httpx.Error(h.rnd, w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Create handles POST /api/leagues
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req CreateLeagueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	league, err := h.app.CreateLeague(r.Context(), user.ID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.League{"league": league})
}

// List handles GET /api/leagues
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	leagues, err := h.app.ListForUser(r.Context(), user.ID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if leagues == nil {
		leagues = []models.League{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.League{"leagues": leagues})
}

// Get handles GET /api/leagues/{leagueID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	league, err := h.app.GetLeague(r.Context(), leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.League{"league": league})
}

// UpdateSettings handles PATCH /api/leagues/{leagueID}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req UpdateSettingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	league, err := h.app.UpdateSettings(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.League{"league": league})
}

// UpdateStatus handles PUT /api/leagues/{leagueID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	league, err := h.app.UpdateStatus(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.League{"league": league})
}

// Join handles POST /api/leagues/{leagueID}/join
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req JoinLeagueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	team, err := h.app.Join(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.FantasyTeam{"team": team})
}
