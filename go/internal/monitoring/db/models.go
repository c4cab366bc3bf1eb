package db

import "time"

// DatabaseStats is one sample of database and application health counters
type DatabaseStats struct {
	ActiveConnections int64
	SlowQueries       int64
	RecentErrors      int64
	ActiveUsers       int64
}

type MonitoringAlert struct {
	ID        int64
	Rule      string
	Component string
	Severity  string
	Message   string
	Value     float64
	Threshold float64
	FiredAt   time.Time
}

type CreateAlertParams struct {
	Rule      string
	Component string
	Severity  string
	Message   string
	Value     float64
	Threshold float64
	FiredAt   time.Time
}

type CreateErrorLogParams struct {
	Component string
	Message   string
	CreatedAt time.Time
}
