package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType names what happened
type NotificationType string

const (
	NotificationTradeProposal NotificationType = "trade_proposal"
	NotificationTradeAccepted NotificationType = "trade_accepted"
	NotificationTradeRejected NotificationType = "trade_rejected"
	NotificationWaiverWon     NotificationType = "waiver_won"
	NotificationWaiverLost    NotificationType = "waiver_lost"
	NotificationDraftPick     NotificationType = "draft_pick"
	NotificationScoreUpdate   NotificationType = "score_update"
	NotificationMention       NotificationType = "mention"
	NotificationLeagueMessage NotificationType = "league_message"
	NotificationSystem        NotificationType = "system_maintenance"
)

type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "low"
	PriorityNormal   NotificationPriority = "normal"
	PriorityHigh     NotificationPriority = "high"
	PriorityUrgent   NotificationPriority = "urgent"
	PriorityCritical NotificationPriority = "critical"
)

// Notification is a message addressed to one user
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	LeagueID  *uuid.UUID           `json:"league_id,omitempty"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      json.RawMessage      `json:"data,omitempty"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}
