package db

import (
	"time"

	"github.com/google/uuid"
)

type Roster struct {
	ID              uuid.UUID
	LeagueID        uuid.UUID
	FantasyTeamID   uuid.UUID
	PlayerID        uuid.UUID
	Position        string
	AcquiredAt      time.Time
	AcquisitionType string
	AcquisitionCost int32
}

type RosterPlayerRow struct {
	Roster
	FullName     string
	PlayerPos    string
	NflTeam      string
	ByeWeek      int32
	Rank         int32
	Active       bool
	InjuryStatus string
}
