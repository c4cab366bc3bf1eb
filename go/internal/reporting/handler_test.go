package reporting

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
	r.Get("/api/leagues/{leagueID}/reports/{kind}", h.Report)
	return r
}

func sampleRecap(leagueID uuid.UUID) *WeeklyRecap {
	return &WeeklyRecap{
		League: LeagueRef{ID: leagueID, Name: "Sunday Scaries", Season: 2025, Week: 6},
		Week:   6,
		Teams: []TeamWeek{
			{Rank: 1, TeamName: "Alpha, Inc", Owner: "alice", Points: 120.5, Waivers: 2},
			{Rank: 2, TeamName: "Bravo", Owner: "bob", Points: 98},
		},
	}
}

func TestReportHandlerJSON(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	leagueID := uuid.New()
	app.On("Generate", mock.Anything, user.ID, leagueID, KindWeeklyRecap, Params{Week: 6}).
		Return(sampleRecap(leagueID), nil).Once()

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues/"+leagueID.String()+"/reports/weekly-recap?week=6", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"team_name":"Alpha, Inc"`)
	assert.Contains(t, rec.Body.String(), `"week":6`)
	app.AssertExpectations(t)
}

func TestReportHandlerCSV(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	leagueID := uuid.New()
	app.On("Generate", mock.Anything, user.ID, leagueID, KindWeeklyRecap, Params{}).
		Return(sampleRecap(leagueID), nil).Once()

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues/"+leagueID.String()+"/reports/weekly-recap?format=csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "weekly-recap-"+leagueID.String()+".csv")
	assert.Equal(t,
		"rank,team,owner,points,waivers,trades\n"+
			"1,\"Alpha, Inc\",alice,120.50,2,0\n"+
			"2,Bravo,bob,98.00,0,0\n",
		rec.Body.String())
}

func TestReportHandlerParsesDateRange(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	leagueID := uuid.New()
	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	app.On("Generate", mock.Anything, user.ID, leagueID, KindMemberActivity, mock.MatchedBy(func(p Params) bool {
		return p.From != nil && p.From.Equal(from) && p.To != nil && p.To.Equal(to)
	})).Return(&MemberActivity{From: from, To: to, Members: []MemberStats{}}, nil).Once()

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/leagues/"+leagueID.String()+"/reports/member-activity?from=2025-09-01&to=2025-09-30", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	app.AssertExpectations(t)
}

func TestReportHandlerBadInput(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	base := "/api/leagues/" + uuid.NewString() + "/reports/weekly-recap"
	router := newRouter(NewHandler(app, render.New()), user)

	for _, tc := range []struct {
		query string
		field string
	}{
		{"?format=xml", "format"},
		{"?week=soon", "week"},
		{"?from=yesterday", "from"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+tc.query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.query)
		assert.Contains(t, rec.Body.String(), `"field":"`+tc.field+`"`, tc.query)
	}
	app.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportHandlerUnknownKind(t *testing.T) {
	app := &mockApp{}
	user := &models.User{ID: uuid.New()}
	app.On("Generate", mock.Anything, user.ID, mock.Anything, Kind("mvp"), Params{}).
		Return(nil, apperr.New(apperr.ErrNotFound, "Unknown report %q", "mvp")).Once()

	rec := httptest.NewRecorder()
	newRouter(NewHandler(app, render.New()), user).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues/"+uuid.NewString()+"/reports/mvp", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown report")
}
