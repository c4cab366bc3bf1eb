package notifications

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// CreateNotificationRequest sends a notification to one user
type CreateNotificationRequest struct {
	UserID   uuid.UUID                   `json:"user_id" validate:"required"`
	LeagueID *uuid.UUID                  `json:"league_id,omitempty"`
	Type     models.NotificationType     `json:"type" validate:"required,oneof=trade_proposal trade_accepted trade_rejected waiver_won waiver_lost draft_pick score_update mention league_message system_maintenance"`
	Priority models.NotificationPriority `json:"priority" validate:"omitempty,oneof=low normal high urgent critical"`
	Title    string                      `json:"title" validate:"required,max=200,safetext"`
	Message  string                      `json:"message" validate:"required,max=2000,safetext"`
	Data     json.RawMessage             `json:"data,omitempty"`
}

// ListFilter narrows a user's notification list
type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

// ListResult is a page of notifications with the user's unread total
type ListResult struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

const (
	defaultLimit = 50
	maxLimit     = 100
)
