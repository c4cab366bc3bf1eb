package waivers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// WaiverApp defines what the handlers need from the waivers application
type WaiverApp interface {
	SubmitClaim(ctx context.Context, userID, leagueID uuid.UUID, req SubmitClaimRequest) (*models.WaiverClaim, error)
	SubmitBatch(ctx context.Context, userID, leagueID uuid.UUID, req BatchClaimRequest) (*BatchResult, error)
	ListClaims(ctx context.Context, userID, leagueID uuid.UUID, filter ClaimFilter) ([]models.WaiverClaim, error)
	CancelClaim(ctx context.Context, userID, claimID uuid.UUID) error
	ProcessLeagueAs(ctx context.Context, userID, leagueID uuid.UUID) (*models.WaiverRun, error)
}

type Handler struct {
	app WaiverApp
	rnd *render.Render
}

func NewHandler(app WaiverApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Submit handles POST /api/leagues/{leagueID}/waivers
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req SubmitClaimRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	claim, err := h.app.SubmitClaim(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.WaiverClaim{"claim": claim})
}

// SubmitBatch handles POST /api/leagues/{leagueID}/waivers/batch
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req BatchClaimRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	result, err := h.app.SubmitBatch(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, result)
}

// List handles GET /api/leagues/{leagueID}/waivers?team_id=&status=
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

	claims, err := h.app.ListClaims(r.Context(), user.ID, leagueID, ClaimFilter{
		TeamID: teamID,
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	if claims == nil {
		claims = []models.WaiverClaim{}
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string][]models.WaiverClaim{"claims": claims})
}

// Cancel handles DELETE /api/waivers/{claimID}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	claimID, err := httpx.URLUUID(r, "claimID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if err := h.app.CancelClaim(r.Context(), user.ID, claimID); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Process handles POST /api/leagues/{leagueID}/waivers/process
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	run, err := h.app.ProcessLeagueAs(r.Context(), user.ID, leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.WaiverRun{"run": run})
}
