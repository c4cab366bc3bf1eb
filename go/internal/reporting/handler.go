package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// ReportingApp defines what the handlers need from the reporting application
type ReportingApp interface {
	Generate(ctx context.Context, userID, leagueID uuid.UUID, kind Kind, p Params) (Report, error)
}

type Handler struct {
	app ReportingApp
	rnd *render.Render
}

func NewHandler(app ReportingApp, rnd *render.Render) *Handler {
	return &Handler{
		app: app,
		rnd: rnd,
	}
}

// Report handles GET /api/leagues/{leagueID}/reports/{kind}?format=json|csv
// with optional week, from and to.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	leagueID, err := httpx.URLUUID(r, "leagueID")
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	format, err := queryFormat(r)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	week, err := httpx.QueryInt(r, "week", 0, 0, maxWeek)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	from, err := queryTime(r, "from", false)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	to, err := queryTime(r, "to", true)
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	kind := Kind(chi.URLParam(r, "kind"))
	rep, err := h.app.Generate(r.Context(), user.ID, leagueID, kind, Params{Week: week, From: from, To: to})
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}

	if format == FormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, kind, leagueID))
		w.WriteHeader(http.StatusOK)
		if err := WriteCSV(w, rep); err != nil {
			log.Error().Err(err).Str("league_id", leagueID.String()).Msg("failed to stream report")
		}
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, rep)
}

func queryFormat(r *http.Request) (Format, error) {
	switch f := Format(r.URL.Query().Get("format")); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", apperr.Field("format", "must be json or csv")
	}
}

// queryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date. A bare
// date used as an end bound covers the whole day.
func queryTime(r *http.Request, name string, end bool) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperr.Field(name, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
