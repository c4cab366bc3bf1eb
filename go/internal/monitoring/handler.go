package monitoring

import (
	"context"
	"net/http"

	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/unrolled/render"
)

// MetricsSource produces request metrics for a time range
type MetricsSource interface {
	Snapshot(rng string) (*MetricsReport, error)
}

// HealthSource reports the production monitor's state
type HealthSource interface {
	Health() Health
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type Handler struct {
	metrics MetricsSource
	monitor HealthSource
	rnd     *render.Render
}

func NewHandler(metrics MetricsSource, monitor HealthSource, rnd *render.Render) *Handler {
	return &Handler{
		metrics: metrics,
		monitor: monitor,
		rnd:     rnd,
	}
}

// Metrics handles GET /api/nfl/metrics?range=15m|1h|1d
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.metrics.Snapshot(r.URL.Query().Get("range"))
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = h.rnd.JSON(w, http.StatusOK, report)
}

// Dashboard handles GET /api/monitoring/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.monitor.Dashboard(r.Context())
	if err != nil {
		httpx.Error(h.rnd, w, r, err)
		return
	}
	_ = h.rnd.JSON(w, http.StatusOK, d)
}

// Health handles GET /api/monitoring/health. An unhealthy verdict answers 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.monitor.Health()
	status := http.StatusOK
	if health.Status == HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	_ = h.rnd.JSON(w, status, health)
}
