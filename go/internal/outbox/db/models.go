package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type EventOutbox struct {
	ID        uuid.UUID
	Room      string
	EventType string
	Payload   pqtype.NullRawMessage
	CreatedAt time.Time
	SentAt    sql.NullTime
}
