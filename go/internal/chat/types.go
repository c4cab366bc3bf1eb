package chat

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// SendMessageRequest posts a message to a league room
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000,safetext"`
}

// ReactionRequest adds an emoji reaction to a message
type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=32"`
}

// TypingRequest toggles the caller's typing indicator in a room
type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// HistoryQuery pages backwards through a room, newest first
type HistoryQuery struct {
	Before *uuid.UUID
	Limit  int
}

// History is one page of a room's messages, oldest first
type History struct {
	Room     models.ChatRoom      `json:"room"`
	Messages []models.ChatMessage `json:"messages"`
	HasMore  bool                 `json:"has_more"`
	// NextBefore is the cursor for the following (older) page
	NextBefore *uuid.UUID `json:"next_before,omitempty"`
}

// messagePayload is the payload of a new_message event
type messagePayload struct {
	models.ChatMessage
	RoomType models.ChatRoomType `json:"room_type"`
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	minSearchLength     = 2
	mentionPreviewLen   = 100
)

var roomNames = map[models.ChatRoomType]string{
	models.ChatRoomGeneral:   "General",
	models.ChatRoomTrashTalk: "Trash Talk",
	models.ChatRoomTrades:    "Trade Talk",
}

var mentionPattern = regexp.MustCompile(`(?:^|[^\w@])@([a-zA-Z0-9_-]{3,30})`)
