package trades

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// ProposeTradeRequest offers players and FAAB to another team in exchange for
// some of theirs
type ProposeTradeRequest struct {
	ProposingTeamID  uuid.UUID   `json:"proposing_team_id" validate:"required"`
	ReceivingTeamID  uuid.UUID   `json:"receiving_team_id" validate:"required"`
	OfferedPlayers   []uuid.UUID `json:"offered_players" validate:"max=10"`
	RequestedPlayers []uuid.UUID `json:"requested_players" validate:"max=10"`
	FAABAmount       int         `json:"faab_amount" validate:"min=0,max=1000"`
	Message          string      `json:"message" validate:"max=500,safetext"`
	ExpirationHours  *int        `json:"expiration_hours,omitempty" validate:"omitempty,min=1,max=168"`
}

// CounterOffer is a new proposal from the receiving team back to the proposer
type CounterOffer struct {
	OfferedPlayers   []uuid.UUID `json:"offered_players" validate:"max=10"`
	RequestedPlayers []uuid.UUID `json:"requested_players" validate:"max=10"`
	FAABAmount       int         `json:"faab_amount" validate:"min=0,max=1000"`
	Message          string      `json:"message" validate:"max=500,safetext"`
	ExpirationHours  *int        `json:"expiration_hours,omitempty" validate:"omitempty,min=1,max=168"`
}

type RespondAction string

const (
	ActionAccept  RespondAction = "accept"
	ActionReject  RespondAction = "reject"
	ActionCounter RespondAction = "counter"
)

// RespondRequest is the receiving team's answer to a proposal
type RespondRequest struct {
	Action  RespondAction `json:"action" validate:"required,oneof=accept reject counter"`
	Message string        `json:"message" validate:"max=500,safetext"`
	Counter *CounterOffer `json:"counter_offer,omitempty"`
}

// RespondResult carries the answered trade and, for a counter, the new proposal
type RespondResult struct {
	Trade   *models.Trade `json:"trade"`
	Counter *models.Trade `json:"counter,omitempty"`
}

// TradeFilter narrows a league's trade list. An empty Status lists all.
type TradeFilter struct {
	TeamID *uuid.UUID
	Status string
}

// CreateTradeParams is what the repository needs to store a proposal
type CreateTradeParams struct {
	LeagueID         uuid.UUID
	ProposingTeamID  uuid.UUID
	ReceivingTeamID  uuid.UUID
	OfferedPlayers   []uuid.UUID
	RequestedPlayers []uuid.UUID
	FAABAmount       int
	Message          string
	CounterOfID      *uuid.UUID
	Assets           []models.TradeAsset
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

const (
	defaultExpiration = 48 * time.Hour
	duplicateWindow   = 24 * time.Hour
)
