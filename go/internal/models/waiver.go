package models

import (
	"time"

	"github.com/google/uuid"
)

// WaiverClaimStatus tracks a claim through processing
type WaiverClaimStatus string

const (
	WaiverClaimPending    WaiverClaimStatus = "pending"
	WaiverClaimSuccessful WaiverClaimStatus = "successful"
	WaiverClaimFailed     WaiverClaimStatus = "failed"
	WaiverClaimCancelled  WaiverClaimStatus = "cancelled"
)

// WaiverClaim is a request to add an unrostered player, optionally dropping one
type WaiverClaim struct {
	ID            uuid.UUID         `json:"id"`
	LeagueID      uuid.UUID         `json:"league_id"`
	TeamID        uuid.UUID         `json:"team_id"`
	PlayerID      uuid.UUID         `json:"player_id"`
	DropPlayerID  *uuid.UUID        `json:"drop_player_id,omitempty"`
	BidAmount     int               `json:"bid_amount"`
	Priority      int               `json:"priority"`
	Status        WaiverClaimStatus `json:"status"`
	FailureReason string            `json:"failure_reason,omitempty"`
	ProcessDate   time.Time         `json:"process_date"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
}

// WaiverRun summarises one processing pass over a league's pending claims
type WaiverRun struct {
	LeagueID         uuid.UUID        `json:"league_id"`
	WaiverType       WaiverType       `json:"waiver_type"`
	Awarded          []WaiverOutcome  `json:"awarded"`
	Failed           []WaiverOutcome  `json:"failed"`
	BudgetUpdates    []BudgetUpdate   `json:"budget_updates"`
	PriorityUpdates  []PriorityUpdate `json:"priority_updates"`
	TotalClaims      int              `json:"total_claims"`
	TotalFAABSpent   int              `json:"total_faab_spent"`
	PlayersProcessed int              `json:"players_processed"`
	ProcessedAt      time.Time        `json:"processed_at"`
}

// WaiverOutcome is the result for a single claim
type WaiverOutcome struct {
	ClaimID      uuid.UUID  `json:"claim_id"`
	TeamID       uuid.UUID  `json:"team_id"`
	PlayerID     uuid.UUID  `json:"player_id"`
	DropPlayerID *uuid.UUID `json:"drop_player_id,omitempty"`
	BidAmount    int        `json:"bid_amount"`
	Reason       string     `json:"reason,omitempty"`
}

type BudgetUpdate struct {
	TeamID    uuid.UUID `json:"team_id"`
	OldBudget int       `json:"old_budget"`
	NewBudget int       `json:"new_budget"`
}

type PriorityUpdate struct {
	TeamID      uuid.UUID `json:"team_id"`
	OldPriority int       `json:"old_priority"`
	NewPriority int       `json:"new_priority"`
}
