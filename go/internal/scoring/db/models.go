package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActiveLeague is the scoring view of an ACTIVE league
type ActiveLeague struct {
	ID            uuid.UUID
	Season        int32
	CurrentWeek   int32
	ScoringFormat string
}

type PlayerRef struct {
	ID         uuid.UUID
	ExternalID string
}

type PlayerScore struct {
	PlayerID  uuid.UUID
	Season    int32
	Week      int32
	Format    string
	Points    float64
	Stats     json.RawMessage
	UpdatedAt time.Time
}

type TeamTotal struct {
	TeamID   uuid.UUID
	TeamName string
	Points   float64
}
