package waivers

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// SubmitClaimRequest asks for an unrostered player on the next waiver run
type SubmitClaimRequest struct {
	TeamID       uuid.UUID  `json:"team_id" validate:"required"`
	PlayerID     uuid.UUID  `json:"player_id" validate:"required"`
	DropPlayerID *uuid.UUID `json:"drop_player_id,omitempty"`
	BidAmount    *int       `json:"bid_amount,omitempty" validate:"omitempty,min=0,max=1000"`
}

// BatchClaimRequest submits several claims at once. Each is accepted or
// rejected on its own.
type BatchClaimRequest struct {
	Claims []SubmitClaimRequest `json:"claims" validate:"required,min=1,max=10"`
}

// BatchItem is the outcome of one claim in a batch
type BatchItem struct {
	Index int                 `json:"index"`
	Claim *models.WaiverClaim `json:"claim,omitempty"`
	Error string              `json:"error,omitempty"`
}

type BatchResult struct {
	Results    []BatchItem `json:"results"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
}

// ClaimFilter narrows a league's claim list. An empty Status means pending.
type ClaimFilter struct {
	TeamID *uuid.UUID
	Status string
}

const statusAll = "all"

// CreateClaimParams is what the repository needs to store a claim
type CreateClaimParams struct {
	LeagueID     uuid.UUID
	TeamID       uuid.UUID
	PlayerID     uuid.UUID
	DropPlayerID *uuid.UUID
	BidAmount    int
	Priority     int
	ProcessDate  time.Time
	SubmittedAt  time.Time
}

// RosterSlot is one rostered player in the league
type RosterSlot struct {
	TeamID   uuid.UUID
	PlayerID uuid.UUID
	Position models.RosterPosition
}

// RunInput is everything a waiver run decides over. Teams and Roster are
// read under lock together with the pending claims.
type RunInput struct {
	Settings models.LeagueSettings
	Claims   []models.WaiverClaim
	Teams    []models.FantasyTeam
	Roster   []RosterSlot
	Now      time.Time
}

// Failure reasons recorded on claims that lose
const (
	reasonAwarded     = "Player was awarded to another team"
	reasonUnavailable = "Player is no longer available"
	reasonDropGone    = "Drop player is no longer on the roster"
	reasonBudget      = "Insufficient FAAB budget"
	reasonNoSpace     = "No roster space and no drop player specified"
	reasonNoTeam      = "Team is no longer in this league"
)
