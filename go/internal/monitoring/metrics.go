package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus series exported at /metrics
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	alerts   *prometheus.CounterVec
	readings *prometheus.GaugeVec
	health   prometheus.Gauge
}

// NewMetrics registers the series on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridiron",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridiron",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		alerts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridiron",
			Subsystem: "monitor",
			Name:      "alerts_total",
			Help:      "Alerts raised by component and severity",
		}, []string{"component", "severity"}),
		readings: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gridiron",
			Subsystem: "monitor",
			Name:      "rolling_average",
			Help:      "Rolling average of each monitored metric",
		}, []string{"metric"}),
		health: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridiron",
			Subsystem: "monitor",
			Name:      "health_status",
			Help:      "0 healthy, 1 degraded, 2 unhealthy",
		}),
	}
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) alertRaised(component string, level Level) {
	if m == nil {
		return
	}
	m.alerts.WithLabelValues(component, string(level)).Inc()
}

func (m *Metrics) setAverages(avg map[string]float64) {
	if m == nil {
		return
	}
	for metric, v := range avg {
		m.readings.WithLabelValues(metric).Set(v)
	}
}

func (m *Metrics) setHealth(s HealthStatus) {
	if m == nil {
		return
	}
	switch s {
	case HealthHealthy:
		m.health.Set(0)
	case HealthDegraded:
		m.health.Set(1)
	default:
		m.health.Set(2)
	}
}
