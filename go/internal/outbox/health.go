package outbox

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/unrolled/render"
)

// highPending is the backlog above which the relay reports a warning
const highPending = 1000

type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	EventsProcessed   uint64    `json:"events_processed"`
	EventsFailed      uint64    `json:"events_failed"`
	PendingEvents     int       `json:"pending_events"`
	LastEventTime     time.Time `json:"last_event_time"`
	DatabaseConnected bool      `json:"database_connected"`
	NATSConnected     bool      `json:"nats_connected"`
	ListenerActive    bool      `json:"listener_active"`
	Errors            []string  `json:"errors"`
}

// HealthChecker reports whether the relay is keeping up
type HealthChecker struct {
	relay     *Relay
	store     Store
	connected func() bool
	clock     clockwork.Clock
	threshold time.Duration // how long a backlog may sit with nothing relayed
	rnd       *render.Render
}

// NewHealthChecker creates a checker. connected reports broker connectivity
// and may be nil.
func NewHealthChecker(relay *Relay, store Store, connected func() bool, clock clockwork.Clock, threshold time.Duration, rnd *render.Render) *HealthChecker {
	return &HealthChecker{
		relay:     relay,
		store:     store,
		connected: connected,
		clock:     clock,
		threshold: threshold,
		rnd:       rnd,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	stats := h.relay.Stats()
	status := HealthStatus{
		Healthy:         true,
		EventsProcessed: stats.Processed,
		EventsFailed:    stats.Failed,
		LastEventTime:   stats.LastEventAt,
		ListenerActive:  stats.Running,
		NATSConnected:   true,
		Errors:          []string{},
	}

	if h.connected != nil && !h.connected() {
		status.NATSConnected = false
		status.Healthy = false
		status.Errors = append(status.Errors, "NATS disconnected")
	}
	if !status.ListenerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "listener not active")
	}

	pending, err := h.store.CountPending(ctx)
	if err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database check failed: %v", err))
		return status
	}
	status.DatabaseConnected = true
	status.PendingEvents = pending
	if pending > highPending {
		status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
	}

	if pending > 0 && !stats.LastEventAt.IsZero() {
		if idle := h.clock.Since(stats.LastEventAt); idle > h.threshold {
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("no events processed for %s", idle.Round(time.Second)))
		}
	}
	return status
}

// ServeHTTP handles GET /health on the relay's port
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	_ = h.rnd.JSON(w, code, status)
}
