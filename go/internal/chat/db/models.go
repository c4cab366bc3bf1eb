package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ChatRoom struct {
	ID        uuid.UUID
	LeagueID  uuid.UUID
	RoomType  string
	Name      string
	CreatedAt time.Time
}

// ChatMessage is a chat_messages row joined with the author's username
type ChatMessage struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	LeagueID  uuid.UUID
	UserID    uuid.UUID
	Username  string
	Body      string
	CreatedAt time.Time
	DeletedAt sql.NullTime
}

type ReactionCount struct {
	MessageID uuid.UUID
	Emoji     string
	Count     int64
}

type LeagueMember struct {
	UserID   uuid.UUID
	Username string
}
