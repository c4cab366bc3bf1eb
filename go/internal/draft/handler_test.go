package draft

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/unrolled/render"
)

func newRouter(h *Handler, user *models.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), user)))
		})
	})
	r.Post("/api/leagues/{leagueID}/draft", h.Create)
	r.Get("/api/leagues/{leagueID}/draft", h.LeagueBoard)
	r.Get("/api/drafts/{draftID}", h.Board)
	r.Post("/api/drafts/{draftID}/picks", h.Pick)
	r.Post("/api/drafts/{draftID}/start", h.Start)
	r.Post("/api/drafts/{draftID}/pause", h.Pause)
	return r
}

func TestCreateHandler(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	leagueID := uuid.New()
	req := CreateDraftRequest{DraftType: models.DraftTypeSnake, Rounds: 15, TimePerPickSec: 90}
	app.On("CreateDraft", mock.Anything, user.ID, leagueID, req).
		Return(&models.Draft{ID: uuid.New(), LeagueID: leagueID, Status: models.DraftStatusNotStarted}, nil)

	rec := httptest.NewRecorder()
	body := `{"draft_type":"SNAKE","rounds":15,"time_per_pick_sec":90}`
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leagues/"+leagueID.String()+"/draft", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"NOT_STARTED"`)
	app.AssertExpectations(t)
}

func TestCreateHandlerUnknownField(t *testing.T) {
	app := &mockApp{}
	rec := httptest.NewRecorder()
	body := `{"draft_type":"SNAKE","rounds":15,"time_per_pick_sec":90,"auction":true}`
	newRouter(NewHandler(app, render.New()), &models.User{ID: uuid.New()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leagues/"+uuid.NewString()+"/draft", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	app.AssertNotCalled(t, "CreateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeagueBoardHandler(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	leagueID := uuid.New()
	draft := &models.Draft{ID: uuid.New(), LeagueID: leagueID, Status: models.DraftStatusInProgress}
	pick := models.DraftPick{ID: uuid.New(), DraftID: draft.ID, Round: 1, Pick: 1, OverallPick: 1, TeamID: uuid.New()}
	app.On("GetLeagueDraft", mock.Anything, leagueID).Return(draft, nil)
	app.On("GetBoard", mock.Anything, user.ID, draft.ID).
		Return(&Board{Draft: draft, Picks: []BoardPick{{DraftPick: pick}}, OnTheClock: &pick, Remaining: 1}, nil)

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues/"+leagueID.String()+"/draft", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":1`)
	assert.Contains(t, rec.Body.String(), `"on_the_clock"`)
}

func TestLeagueBoardHandlerNoDraft(t *testing.T) {
	app := &mockApp{}
	leagueID := uuid.New()
	app.On("GetLeagueDraft", mock.Anything, leagueID).Return(nil, apperr.ErrNotFound)

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), &models.User{ID: uuid.New()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues/"+leagueID.String()+"/draft", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPickHandlerNotYourTurn(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	draftID, playerID := uuid.New(), uuid.New()
	app.On("MakePick", mock.Anything, user.ID, draftID, MakePickRequest{PlayerID: playerID}).
		Return(nil, apperr.New(apperr.ErrForbidden, "It is not your turn to pick"))

	rec := httptest.NewRecorder()
	body := `{"player_id":"` + playerID.String() + `"}`
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", strings.NewReader(body)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"It is not your turn to pick"}`, rec.Body.String())
}

func TestPickHandler(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	draftID, playerID := uuid.New(), uuid.New()
	app.On("MakePick", mock.Anything, user.ID, draftID, MakePickRequest{PlayerID: playerID}).
		Return(&models.DraftPick{ID: uuid.New(), DraftID: draftID, PlayerID: &playerID, OverallPick: 3}, nil)

	rec := httptest.NewRecorder()
	body := `{"player_id":"` + playerID.String() + `"}`
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overall_pick":3`)
}

func TestControlHandlers(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	draftID := uuid.New()
	app.On("StartDraft", mock.Anything, user.ID, draftID).
		Return(&models.Draft{ID: draftID, Status: models.DraftStatusInProgress}, nil)
	app.On("PauseDraft", mock.Anything, user.ID, draftID).
		Return(nil, apperr.New(apperr.ErrConflict, "Cannot move draft from NOT_STARTED to PAUSED"))

	router := newRouter(NewHandler(app, render.New()), user)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts/"+draftID.String()+"/start", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"IN_PROGRESS"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts/"+draftID.String()+"/pause", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBoardHandlerBadID(t *testing.T) {
	app := &mockApp{}
	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), &models.User{ID: uuid.New()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/drafts/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "draftID")
}
