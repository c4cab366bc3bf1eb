package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type WaiverClaim struct {
	ID            uuid.UUID
	LeagueID      uuid.UUID
	TeamID        uuid.UUID
	PlayerID      uuid.UUID
	DropPlayerID  uuid.NullUUID
	BidAmount     int32
	Priority      int32
	Status        string
	FailureReason string
	ProcessDate   time.Time
	SubmittedAt   time.Time
	ProcessedAt   sql.NullTime
}

type WaiverTeam struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Wins           int32
	Losses         int32
	Ties           int32
	PointsFor      float64
	WaiverPriority int32
	FaabRemaining  int32
}

type RosterSlot struct {
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
	Position      string
}
