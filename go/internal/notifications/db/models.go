package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LeagueID  uuid.NullUUID
	Type      string
	Priority  string
	Title     string
	Message   string
	Data      pqtype.NullRawMessage
	ReadAt    sql.NullTime
	CreatedAt time.Time
}
