package db

import (
	"context"
	"time"
)

const getDatabaseStats = `-- name: GetDatabaseStats :one
SELECT
    (SELECT count(*) FROM pg_stat_activity WHERE state = 'active') AS active_connections,
    (SELECT count(*) FROM pg_stat_activity
     WHERE state = 'active' AND query_start < now() - make_interval(secs => $1::float8)) AS slow_queries,
    (SELECT count(*) FROM error_logs WHERE created_at >= $2) AS recent_errors,
    (SELECT count(DISTINCT user_id) FROM sessions WHERE expires_at > $3) AS active_users`

type GetDatabaseStatsParams struct {
	SlowQuerySeconds float64
	ErrorsSince      time.Time
	Now              time.Time
}

func (q *Queries) GetDatabaseStats(ctx context.Context, arg GetDatabaseStatsParams) (DatabaseStats, error) {
	row := q.db.QueryRowContext(ctx, getDatabaseStats, arg.SlowQuerySeconds, arg.ErrorsSince, arg.Now)
	var i DatabaseStats
	err := row.Scan(
		&i.ActiveConnections,
		&i.SlowQueries,
		&i.RecentErrors,
		&i.ActiveUsers,
	)
	return i, err
}

const createAlert = `-- name: CreateAlert :one
INSERT INTO monitoring_alerts (rule, component, severity, message, value, threshold, fired_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, rule, component, severity, message, value, threshold, fired_at`

func (q *Queries) CreateAlert(ctx context.Context, arg CreateAlertParams) (MonitoringAlert, error) {
	row := q.db.QueryRowContext(ctx, createAlert,
		arg.Rule,
		arg.Component,
		arg.Severity,
		arg.Message,
		arg.Value,
		arg.Threshold,
		arg.FiredAt,
	)
	var i MonitoringAlert
	err := row.Scan(
		&i.ID,
		&i.Rule,
		&i.Component,
		&i.Severity,
		&i.Message,
		&i.Value,
		&i.Threshold,
		&i.FiredAt,
	)
	return i, err
}

const listRecentAlerts = `-- name: ListRecentAlerts :many
SELECT id, rule, component, severity, message, value, threshold, fired_at
FROM monitoring_alerts
ORDER BY fired_at DESC, id DESC
LIMIT $1`

func (q *Queries) ListRecentAlerts(ctx context.Context, limit int32) ([]MonitoringAlert, error) {
	rows, err := q.db.QueryContext(ctx, listRecentAlerts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonitoringAlert
	for rows.Next() {
		var i MonitoringAlert
		if err := rows.Scan(
			&i.ID,
			&i.Rule,
			&i.Component,
			&i.Severity,
			&i.Message,
			&i.Value,
			&i.Threshold,
			&i.FiredAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createErrorLog = `-- name: CreateErrorLog :exec
INSERT INTO error_logs (component, message, created_at)
VALUES ($1, $2, $3)`

func (q *Queries) CreateErrorLog(ctx context.Context, arg CreateErrorLogParams) error {
	_, err := q.db.ExecContext(ctx, createErrorLog, arg.Component, arg.Message, arg.CreatedAt)
	return err
}
