package db

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID           uuid.UUID
	ExternalID   string
	FullName     string
	Position     string
	NflTeam      string
	ByeWeek      int32
	Rank         int32
	Active       bool
	InjuryStatus string
	CreatedAt    time.Time
}
