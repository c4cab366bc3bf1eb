package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus tracks a trade proposal
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusAccepted  TradeStatus = "accepted"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusCountered TradeStatus = "countered"
	TradeStatusCancelled TradeStatus = "cancelled"
	TradeStatusExpired   TradeStatus = "expired"
)

// Trade is a proposal between two teams in the same league
type Trade struct {
	ID               uuid.UUID    `json:"id"`
	LeagueID         uuid.UUID    `json:"league_id"`
	ProposingTeamID  uuid.UUID    `json:"proposing_team_id"`
	ReceivingTeamID  uuid.UUID    `json:"receiving_team_id"`
	OfferedPlayers   []uuid.UUID  `json:"offered_players"`
	RequestedPlayers []uuid.UUID  `json:"requested_players"`
	FAABAmount       int          `json:"faab_amount"`
	Message          string       `json:"message,omitempty"`
	Status           TradeStatus  `json:"status"`
	CounterOfID      *uuid.UUID   `json:"counter_of_id,omitempty"`
	Assets           []TradeAsset `json:"assets"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RespondedAt      *time.Time   `json:"responded_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// TradeAsset records a traded player as it was when the trade was proposed
type TradeAsset struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   Position  `json:"position"`
	NFLTeam    string    `json:"nfl_team"`
	FromTeamID uuid.UUID `json:"from_team_id"`
	ToTeamID   uuid.UUID `json:"to_team_id"`
}

// IsExpired reports whether the trade's response window has closed
func (t *Trade) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
