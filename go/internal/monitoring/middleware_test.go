package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	c, _, reg := newTestCollector(t)
	errs := &recordingErrorLog{}

	r := chi.NewRouter()
	r.Use(Middleware(c, errs))
	r.Get("/api/leagues/{leagueID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/trades", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leagues/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/trades", nil))

	report, err := c.Snapshot("1h")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Requests.Total)
	assert.Equal(t, 1, report.Requests.Failed)
	assert.Equal(t, []string{"/api/trades: POST /api/trades returned 500"}, errs.entries)

	families, err := reg.Gather()
	require.NoError(t, err)
	var routes []string
	for _, mf := range families {
		if mf.GetName() != "gridiron_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					routes = append(routes, l.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/api/leagues/{leagueID}", "/api/trades"}, routes)
}
