package draft

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/unrolled/render"
)

// DraftApp defines what the handlers need from the draft application
type DraftApp interface {
	CreateDraft(ctx context.Context, userID, leagueID uuid.UUID, req CreateDraftRequest) (*models.Draft, error)
	GetLeagueDraft(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error)
	GetBoard(ctx context.Context, userID, draftID uuid.UUID) (*Board, error)
	StartDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error)
	MakePick(ctx context.Context, userID, draftID uuid.UUID, req MakePickRequest) (*models.DraftPick, error)
	PauseDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error)
	ResumeDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error)
	CompleteDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error)
}

type Handler struct {
	app DraftApp
	rnd *render.Render
}

func NewHandler(app DraftApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Create handles POST /api/leagues/{leagueID}/draft
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req CreateDraftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	draft, err := h.app.CreateDraft(r.Context(), user.ID, leagueID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.Draft{"draft": draft})
}

// LeagueBoard handles GET /api/leagues/{leagueID}/draft
func (h *Handler) LeagueBoard(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	draft, err := h.app.GetLeagueDraft(r.Context(), leagueID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	board, err := h.app.GetBoard(r.Context(), user.ID, draft.ID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, board)
}

// Board handles GET /api/drafts/{draftID}
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	draftID, err := httpx.URLUUID(r, "draftID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	board, err := h.app.GetBoard(r.Context(), user.ID, draftID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, board)
}

// Pick handles POST /api/drafts/{draftID}/picks
func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	draftID, err := httpx.URLUUID(r, "draftID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	var req MakePickRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	pick, err := h.app.MakePick(r.Context(), user.ID, draftID, req)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusCreated, map[string]*models.DraftPick{"pick": pick})
}

// Start handles POST /api/drafts/{draftID}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.app.StartDraft)
}

// Pause handles POST /api/drafts/{draftID}/pause
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.app.PauseDraft)
}

// Resume handles POST /api/drafts/{draftID}/resume
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.app.ResumeDraft)
}

// Complete handles POST /api/drafts/{draftID}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.app.CompleteDraft)
}

func (h *Handler) control(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error)) {
	user, _ := auth.UserFromContext(r.Context())
	draftID, err := httpx.URLUUID(r, "draftID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	draft, err := fn(r.Context(), user.ID, draftID)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, map[string]*models.Draft{"draft": draft})
}
