package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/monitoring/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetDatabaseStats(ctx context.Context, arg db.GetDatabaseStatsParams) (db.DatabaseStats, error)
	CreateAlert(ctx context.Context, arg db.CreateAlertParams) (db.MonitoringAlert, error)
	ListRecentAlerts(ctx context.Context, limit int32) ([]db.MonitoringAlert, error)
	CreateErrorLog(ctx context.Context, arg db.CreateErrorLogParams) error
}

// Repository implements monitoring data access operations
type Repository struct {
	queries Querier
	clock   clockwork.Clock
}

// NewRepository creates a new monitoring repository
func NewRepository(querier Querier, clock clockwork.Clock) *Repository {
	return &Repository{queries: querier, clock: clock}
}

// DatabaseStats samples connection, slow query, error log and session counters
func (r *Repository) DatabaseStats(ctx context.Context, slowQuery time.Duration, errorsSince, now time.Time) (*Sample, error) {
	row, err := r.queries.GetDatabaseStats(ctx, db.GetDatabaseStatsParams{
		SlowQuerySeconds: slowQuery.Seconds(),
		ErrorsSince:      errorsSince,
		Now:              now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sample database stats: %w", err)
	}
	return &Sample{
		ActiveConnections: float64(row.ActiveConnections),
		SlowQueries:       float64(row.SlowQueries),
		ErrorsLastHour:    float64(row.RecentErrors),
		ActiveUsers:       float64(row.ActiveUsers),
	}, nil
}

func (r *Repository) SaveAlert(ctx context.Context, alert FiredAlert) (*FiredAlert, error) {
	row, err := r.queries.CreateAlert(ctx, db.CreateAlertParams{
		Rule:      alert.Rule,
		Component: alert.Component,
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		Value:     alert.Value,
		Threshold: alert.Threshold,
		FiredAt:   alert.FiredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}
	a := dbAlertToFired(row)
	return &a, nil
}

// RecentAlerts returns the newest persisted alerts first
func (r *Repository) RecentAlerts(ctx context.Context, limit int) ([]FiredAlert, error) {
	rows, err := r.queries.ListRecentAlerts(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	out := make([]FiredAlert, len(rows))
	for i, row := range rows {
		out[i] = dbAlertToFired(row)
	}
	return out, nil
}

// LogError records a server error for the monitor's error rate
func (r *Repository) LogError(ctx context.Context, component, message string) error {
	err := r.queries.CreateErrorLog(ctx, db.CreateErrorLogParams{
		Component: component,
		Message:   message,
		CreatedAt: r.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}

func dbAlertToFired(row db.MonitoringAlert) FiredAlert {
	return FiredAlert{
		ID:        row.ID,
		Rule:      row.Rule,
		Component: row.Component,
		Severity:  Level(row.Severity),
		Message:   row.Message,
		Value:     row.Value,
		Threshold: row.Threshold,
		FiredAt:   row.FiredAt,
	}
}
