package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type League struct {
	ID             uuid.UUID
	Name           string
	LeagueType     string
	CommissionerID uuid.UUID
	LeagueSettings json.RawMessage
	Status         string
	Season         int32
	CurrentWeek    int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
