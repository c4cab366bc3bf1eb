package trades

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// TradeApp defines what the handlers need from the trades application
type TradeApp interface {
	ProposeTrade(ctx context.Context, userID, leagueID uuid.UUID, req ProposeTradeRequest) (*models.Trade, error)
	RespondToTrade(ctx context.Context, userID, tradeID uuid.UUID, req RespondRequest) (*RespondResult, error)
	CancelTrade(ctx context.Context, userID, tradeID uuid.UUID) error
	GetTrade(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error)
	ListTrades(ctx context.Context, userID, leagueID uuid.UUID, filter TradeFilter) ([]models.Trade, error)
}

type Handler struct {
	app TradeApp
	rnd *render.Render
}

func NewHandler(app TradeApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Propose handles POST /api/leagues/{leagueID}/trades
func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req ProposeTradeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	trade, err := h.app.ProposeTrade(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.Trade{"trade": trade})
}

// List handles GET /api/leagues/{leagueID}/trades?team_id=&status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	teamID, err := httpx.QueryUUID(r, "team_id")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	trades, err := h.app.ListTrades(r.Context(), user.ID, leagueID, TradeFilter{
		TeamID: teamID,
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.Trade{"trades": trades})
}

// Get handles GET /api/trades/{tradeID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	tradeID, err := httpx.URLUUID(r, "tradeID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	trade, err := h.app.GetTrade(r.Context(), user.ID, tradeID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.Trade{"trade": trade})
}

// Respond handles POST /api/trades/{tradeID}/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	tradeID, err := httpx.URLUUID(r, "tradeID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req RespondRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	result, err := h.app.RespondToTrade(r.Context(), user.ID, tradeID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, result)
}

// Cancel handles DELETE /api/trades/{tradeID}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	tradeID, err := httpx.URLUUID(r, "tradeID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if err := h.app.CancelTrade(r.Context(), user.ID, tradeID); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
