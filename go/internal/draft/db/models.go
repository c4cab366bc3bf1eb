package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Draft struct {
	ID           uuid.UUID
	LeagueID     uuid.UUID
	DraftType    string
	Status       string
	Settings     json.RawMessage
	NextDeadline sql.NullTime
	StartedAt    sql.NullTime
	CompletedAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DraftPick struct {
	ID          uuid.UUID
	DraftID     uuid.UUID
	Round       int32
	Pick        int32
	OverallPick int32
	TeamID      uuid.UUID
	PlayerID    uuid.NullUUID
	PickedAt    sql.NullTime
	AutoPicked  bool
}

type DraftBoardRow struct {
	DraftPick
	PlayerName     sql.NullString
	PlayerPosition sql.NullString
}

type AvailablePlayer struct {
	ID       uuid.UUID
	FullName string
	Position string
	Rank     int32
}
