package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftType defines the type of draft.
type DraftType string

const (
	DraftTypeSnake  DraftType = "SNAKE"
	DraftTypeLinear DraftType = "LINEAR"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusPaused     DraftStatus = "PAUSED"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
	DraftStatusCancelled  DraftStatus = "CANCELLED"
)

// DraftSettings holds JSONB configuration for drafts.
type DraftSettings struct {
	Rounds             int         `json:"rounds"`
	TimePerPickSec     int         `json:"time_per_pick_sec"`
	DraftOrder         []uuid.UUID `json:"draft_order,omitempty"`
	ThirdRoundReversal bool        `json:"third_round_reversal,omitempty"`
}

// Draft represents a draft instance.
type Draft struct {
	ID           uuid.UUID     `json:"id"`
	LeagueID     uuid.UUID     `json:"league_id"`
	DraftType    DraftType     `json:"draft_type"`
	Status       DraftStatus   `json:"status"`
	Settings     DraftSettings `json:"settings"`
	NextDeadline *time.Time    `json:"next_deadline,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
