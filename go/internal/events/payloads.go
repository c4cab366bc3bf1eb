package events

import (
	"time"

	"github.com/google/uuid"
)

// Payload types shared by the domain packages and websocket clients

// PickStartedPayload is the payload for a pick_started event
type PickStartedPayload struct {
	DraftID        uuid.UUID `json:"draft_id"`
	PickID         uuid.UUID `json:"pick_id"`
	TeamID         uuid.UUID `json:"team_id"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	OverallPick    int       `json:"overall_pick"`
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for a draft_pick event
type PickMadePayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	PickID      uuid.UUID `json:"pick_id"`
	TeamID      uuid.UUID `json:"team_id"`
	PlayerID    uuid.UUID `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	AutoPicked  bool      `json:"auto_picked"`
	MadeAt      time.Time `json:"made_at"`
}

// DraftStartedPayload is the payload for a draft_started event
type DraftStartedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	DraftType   string    `json:"draft_type"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftCompletedPayload is the payload for a draft_completed event
type DraftCompletedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftStatePayload is the payload for draft_paused and draft_resumed events
type DraftStatePayload struct {
	DraftID uuid.UUID `json:"draft_id"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// TypingPayload is the payload for a typing_indicator event
type TypingPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	RoomType string    `json:"room_type,omitempty"`
	IsTyping bool      `json:"is_typing"`
}

// ModerationPayload is the payload for a message_moderated event
type ModerationPayload struct {
	MessageID   uuid.UUID `json:"message_id"`
	ModeratorID uuid.UUID `json:"moderator_id"`
	Action      string    `json:"action"`
}

// ReactionPayload is the payload for a message_reaction event
type ReactionPayload struct {
	MessageID uuid.UUID `json:"message_id"`
	UserID    uuid.UUID `json:"user_id"`
	Emoji     string    `json:"emoji"`
	Added     bool      `json:"added"`
}

// ScoreUpdatePayload is the payload for a score_update event
type ScoreUpdatePayload struct {
	LeagueID uuid.UUID   `json:"league_id"`
	Week     int         `json:"week"`
	Teams    []TeamScore `json:"teams"`
}

type TeamScore struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Points   float64   `json:"points"`
}

// WaiverProcessedPayload is the payload for a waiver_processed event
type WaiverProcessedPayload struct {
	LeagueID         uuid.UUID `json:"league_id"`
	TotalClaims      int       `json:"total_claims"`
	Successful       int       `json:"successful"`
	Failed           int       `json:"failed"`
	PlayersProcessed int       `json:"players_processed"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// TradePayload is the payload for trade_proposed and trade_updated events
type TradePayload struct {
	TradeID         uuid.UUID `json:"trade_id"`
	ProposingTeamID uuid.UUID `json:"proposing_team_id"`
	ReceivingTeamID uuid.UUID `json:"receiving_team_id"`
	Status          string    `json:"status"`
}

// RosterChangedPayload is the payload for a roster_changed event
type RosterChangedPayload struct {
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Action   string    `json:"action"`
}

// PresencePayload is the payload for user_joined and user_left events
type PresencePayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// ErrorPayload is sent to a single connection when its message is rejected
type ErrorPayload struct {
	Message string `json:"message"`
}
