package outbox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the relay's Prometheus series
type Metrics struct {
	relayed  *prometheus.CounterVec
	duration prometheus.Histogram
	pending  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		relayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridiron",
			Subsystem: "outbox",
			Name:      "events_relayed_total",
			Help:      "Outbox events relayed by type and result",
		}, []string{"event_type", "result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gridiron",
			Subsystem: "outbox",
			Name:      "relay_duration_seconds",
			Help:      "Time to publish and mark one outbox event",
			Buckets:   prometheus.DefBuckets,
		}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridiron",
			Subsystem: "outbox",
			Name:      "pending_events",
			Help:      "Unsent outbox rows at the last sweep",
		}),
	}
}

func (m *Metrics) eventRelayed(eventType string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.relayed.WithLabelValues(eventType, result).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
