package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Trade struct {
	ID               uuid.UUID
	LeagueID         uuid.UUID
	ProposingTeamID  uuid.UUID
	ReceivingTeamID  uuid.UUID
	OfferedPlayers   []uuid.UUID
	RequestedPlayers []uuid.UUID
	FaabAmount       int32
	Message          string
	Status           string
	CounterOfID      uuid.NullUUID
	Assets           pqtype.NullRawMessage
	ExpiresAt        time.Time
	RespondedAt      sql.NullTime
	CreatedAt        time.Time
}

type RosterSlot struct {
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
	Position      string
}
