package models

import "time"

// AlertSeverity orders how loudly an alert should be raised
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a fired threshold rule
type Alert struct {
	ID        int64         `json:"id,omitempty"`
	Rule      string        `json:"rule"`
	Component string        `json:"component"`
	Severity  AlertSeverity `json:"level"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	FiredAt   time.Time     `json:"timestamp"`
}

// HealthState is the rolled-up service condition
type HealthState string

const (
	HealthHealthy   HealthState = "healthy"
	HealthDegraded  HealthState = "degraded"
	HealthUnhealthy HealthState = "unhealthy"
)
