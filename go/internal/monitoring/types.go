package monitoring

import (
	"time"
)

// Level is an alert severity
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

// Alert is a threshold breach raised by the collector or the monitor
type Alert struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Component string    `json:"component"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// point is one timestamped sample in a collector series
type point struct {
	at    time.Time
	value float64
}

// MemoryStats is heap usage in bytes
type MemoryStats struct {
	Used  uint64
	Total uint64
}

// WebSocketStats describes the realtime hub
type WebSocketStats struct {
	Connections     int   `json:"connections"`
	Rooms           int   `json:"rooms"`
	MessagesSent    int64 `json:"messages_sent"`
	MessagesDropped int64 `json:"messages_dropped"`
}

// Percentiles of response times in milliseconds
type Percentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type RequestMetrics struct {
	Total               int         `json:"total"`
	Successful          int         `json:"successful"`
	Failed              int         `json:"failed"`
	Rate                float64     `json:"rate"`
	AverageResponseTime float64     `json:"average_response_time"`
	Percentiles         Percentiles `json:"percentiles"`
}

type ServiceInfo struct {
	Name      string    `json:"name"`
	Uptime    float64   `json:"uptime_seconds"`
	StartTime time.Time `json:"start_time"`
}

type MemoryMetrics struct {
	Used  uint64  `json:"used"`
	Free  uint64  `json:"free"`
	Total uint64  `json:"total"`
	Usage float64 `json:"usage"`
}

type SystemMetrics struct {
	Memory     MemoryMetrics `json:"memory"`
	Goroutines int           `json:"goroutines"`
}

// MetricsReport is the collector's view of a time range
type MetricsReport struct {
	Timestamp time.Time      `json:"timestamp"`
	Interval  string         `json:"interval"`
	Service   ServiceInfo    `json:"service"`
	Requests  RequestMetrics `json:"requests"`
	WebSocket WebSocketStats `json:"websocket"`
	System    SystemMetrics  `json:"system"`
	Alerts    []Alert        `json:"alerts"`
}

// HealthStatus is the monitor's overall verdict
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Health is the result of the latest monitor tick
type Health struct {
	Status    HealthStatus `json:"status"`
	CheckedAt time.Time    `json:"checked_at"`
	Breaching []string     `json:"breaching"`
	Error     string       `json:"error,omitempty"`
}

// Sample is one monitor reading. Database counters come from SQL, API
// figures from the request collector.
type Sample struct {
	At                time.Time `json:"at"`
	ActiveConnections float64   `json:"active_connections"`
	SlowQueries       float64   `json:"slow_queries"`
	ErrorsLastHour    float64   `json:"errors_last_hour"`
	ActiveUsers       float64   `json:"active_users"`
	APILatencyMs      float64   `json:"api_latency_ms"`
	APIErrorRate      float64   `json:"api_error_rate"`
}

// FiredAlert is a persisted monitor alert
type FiredAlert struct {
	ID        int64     `json:"id"`
	Rule      string    `json:"rule"`
	Component string    `json:"component"`
	Severity  Level     `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	FiredAt   time.Time `json:"fired_at"`
}

// Dashboard is the monitor's state for operators
type Dashboard struct {
	Health       Health             `json:"health"`
	Current      *Sample            `json:"current"`
	Averages     map[string]float64 `json:"averages"`
	Samples      int                `json:"samples"`
	Rules        []Rule             `json:"rules"`
	RecentAlerts []FiredAlert       `json:"recent_alerts"`
}

const (
	maxPoints       = 1000
	maxAlerts       = 100
	alertsShown     = 20
	alertWindow     = 5 * time.Minute
	defaultRange    = "1h"
	dashboardAlerts = 20
	serviceName     = "gridiron"
)
