package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoomType distinguishes the fixed rooms every league gets
type ChatRoomType string

const (
	ChatRoomGeneral   ChatRoomType = "general"
	ChatRoomTrashTalk ChatRoomType = "trash_talk"
	ChatRoomTrades    ChatRoomType = "trades"
)

// ChatRoomTypes lists the rooms created for each league
var ChatRoomTypes = []ChatRoomType{ChatRoomGeneral, ChatRoomTrashTalk, ChatRoomTrades}

type ChatRoom struct {
	ID        uuid.UUID    `json:"id"`
	LeagueID  uuid.UUID    `json:"league_id"`
	Type      ChatRoomType `json:"type"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

// ChatMessage is a message posted to a league chat room
type ChatMessage struct {
	ID        uuid.UUID           `json:"id"`
	RoomID    uuid.UUID           `json:"room_id"`
	LeagueID  uuid.UUID           `json:"league_id"`
	UserID    uuid.UUID           `json:"user_id"`
	Username  string              `json:"username"`
	Body      string              `json:"body"`
	Reactions []ChatReactionCount `json:"reactions,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	DeletedAt *time.Time          `json:"deleted_at,omitempty"`
}

type ChatReactionCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}
