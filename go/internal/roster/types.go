package roster

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// AddPlayerRequest adds a free agent, optionally dropping a rostered player
type AddPlayerRequest struct {
	PlayerID     uuid.UUID  `json:"player_id" validate:"required"`
	DropPlayerID *uuid.UUID `json:"drop_player_id,omitempty"`
}

// MovePlayerRequest moves a rostered player between slots
type MovePlayerRequest struct {
	Position models.RosterPosition `json:"position" validate:"required,oneof=STARTER BENCH IR"`
}

// AddPlayerParams is what the repository needs to insert a roster entry
type AddPlayerParams struct {
	LeagueID        uuid.UUID
	TeamID          uuid.UUID
	PlayerID        uuid.UUID
	DropPlayerID    *uuid.UUID
	Position        models.RosterPosition
	AcquisitionType models.AcquisitionType
	AcquisitionCost int
}

// RosterCounts summarizes how a team's roster slots are used. Active
// excludes IR.
type RosterCounts struct {
	Active   int
	Starters int
	IR       int
}

const (
	actionAdded   = "added"
	actionDropped = "dropped"
	actionMoved   = "moved"
)
