package monitoring

import (
	"fmt"
	"time"
)

// Metric names a monitored reading
type Metric string

const (
	MetricDBConnections Metric = "db_connections"
	MetricSlowQueries   Metric = "slow_queries"
	MetricErrorsPerHour Metric = "errors_per_hour"
	MetricActiveUsers   Metric = "active_users"
	MetricAPILatencyMs  Metric = "api_latency_ms"
	MetricAPIErrorRate  Metric = "api_error_rate"
)

var allMetrics = []Metric{
	MetricDBConnections,
	MetricSlowQueries,
	MetricErrorsPerHour,
	MetricActiveUsers,
	MetricAPILatencyMs,
	MetricAPIErrorRate,
}

func (s Sample) value(m Metric) float64 {
	switch m {
	case MetricDBConnections:
		return s.ActiveConnections
	case MetricSlowQueries:
		return s.SlowQueries
	case MetricErrorsPerHour:
		return s.ErrorsLastHour
	case MetricActiveUsers:
		return s.ActiveUsers
	case MetricAPILatencyMs:
		return s.APILatencyMs
	case MetricAPIErrorRate:
		return s.APIErrorRate
	}
	return 0
}

// Comparator decides whether a reading breaches a threshold
type Comparator string

const (
	GreaterThan Comparator = "gt"
	LessThan    Comparator = "lt"
)

// Rule fires an alert when the rolling average of Metric breaches Threshold.
// A rule fires at most once per Cooldown.
type Rule struct {
	Name       string        `json:"name" yaml:"name"`
	Metric     Metric        `json:"metric" yaml:"metric"`
	Comparator Comparator    `json:"comparator" yaml:"comparator"`
	Threshold  float64       `json:"threshold" yaml:"threshold"`
	Severity   Level         `json:"severity" yaml:"severity"`
	Cooldown   time.Duration `json:"cooldown" yaml:"cooldown"`
}

func (r Rule) breached(v float64) bool {
	switch r.Comparator {
	case GreaterThan:
		return v > r.Threshold
	case LessThan:
		return v < r.Threshold
	}
	return false
}

func (r Rule) message(v float64) string {
	op := "above"
	if r.Comparator == LessThan {
		op = "below"
	}
	return fmt.Sprintf("%s is %.2f, %s threshold %.2f", r.Metric, v, op, r.Threshold)
}

func (r Rule) component() string {
	switch r.Metric {
	case MetricAPILatencyMs, MetricAPIErrorRate:
		return "api"
	case MetricActiveUsers:
		return "users"
	}
	return "database"
}

// Thresholds tunes the default rules
type Thresholds struct {
	MaxConnections float64
	APILatencyMs   float64
	ErrorsPerHour  float64
}

// DefaultRules returns the standard rule set for th
func DefaultRules(th Thresholds) []Rule {
	return []Rule{
		{Name: "high_api_latency", Metric: MetricAPILatencyMs, Comparator: GreaterThan, Threshold: th.APILatencyMs, Severity: LevelError, Cooldown: 5 * time.Minute},
		{Name: "high_api_error_rate", Metric: MetricAPIErrorRate, Comparator: GreaterThan, Threshold: 0.05, Severity: LevelCritical, Cooldown: 5 * time.Minute},
		{Name: "db_connections_saturated", Metric: MetricDBConnections, Comparator: GreaterThan, Threshold: th.MaxConnections, Severity: LevelWarning, Cooldown: 10 * time.Minute},
		{Name: "slow_queries", Metric: MetricSlowQueries, Comparator: GreaterThan, Threshold: 5, Severity: LevelWarning, Cooldown: 10 * time.Minute},
		{Name: "error_burst", Metric: MetricErrorsPerHour, Comparator: GreaterThan, Threshold: th.ErrorsPerHour, Severity: LevelError, Cooldown: 15 * time.Minute},
	}
}
