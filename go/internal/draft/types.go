package draft

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// CreateDraftRequest configures a league's draft. DraftOrder defaults to the
// league's teams in the order they joined.
type CreateDraftRequest struct {
	DraftType          models.DraftType `json:"draft_type" validate:"required,oneof=SNAKE LINEAR"`
	Rounds             int              `json:"rounds" validate:"required,min=1,max=30"`
	TimePerPickSec     int              `json:"time_per_pick_sec" validate:"required,min=10,max=86400"`
	DraftOrder         []uuid.UUID      `json:"draft_order,omitempty" validate:"omitempty,min=2,max=32"`
	ThirdRoundReversal bool             `json:"third_round_reversal,omitempty"`
}

// MakePickRequest selects a player for the pick on the clock
type MakePickRequest struct {
	PlayerID uuid.UUID `json:"player_id" validate:"required"`
}

// CreateDraftParams is what the repository needs to store a draft and its picks
type CreateDraftParams struct {
	ID        uuid.UUID
	LeagueID  uuid.UUID
	DraftType models.DraftType
	Settings  models.DraftSettings
	Picks     []models.DraftPick
}

// RecordPickParams assigns a player to a pick and rosters them
type RecordPickParams struct {
	DraftID    uuid.UUID
	LeagueID   uuid.UUID
	PickID     uuid.UUID
	TeamID     uuid.UUID
	PlayerID   uuid.UUID
	AutoPicked bool
}

// BoardPick is one cell of the draft board
type BoardPick struct {
	models.DraftPick
	PlayerName     string          `json:"player_name,omitempty"`
	PlayerPosition models.Position `json:"player_position,omitempty"`
}

// Board is the full state of a draft
type Board struct {
	Draft      *models.Draft     `json:"draft"`
	Picks      []BoardPick       `json:"picks"`
	OnTheClock *models.DraftPick `json:"on_the_clock,omitempty"`
	Remaining  int               `json:"remaining"`
}

// AvailablePlayer is the best remaining player an auto-pick can take
type AvailablePlayer struct {
	ID       uuid.UUID
	FullName string
	Position models.Position
	Rank     int
}
