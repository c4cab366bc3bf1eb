package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// NotificationRepository defines what the app layer needs from the repository
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int, error)
}

// App stores notifications and delivers them to the recipient's private room
type App struct {
	repo      NotificationRepository
	publisher events.Publisher
	clock     clockwork.Clock
}

// NewApp creates a new notifications App
func NewApp(repo NotificationRepository, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
	}
}

// Notify stores n and pushes it to the user's room. Other apps call this
// after their own change has been made.
func (a *App) Notify(ctx context.Context, n models.Notification) error {
	_, err := a.deliver(ctx, n)
	return err
}

// Create validates and sends a notification on behalf of an administrator
func (a *App) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return a.deliver(ctx, models.Notification{
		UserID:   req.UserID,
		LeagueID: req.LeagueID,
		Type:     req.Type,
		Priority: req.Priority,
		Title:    validation.SanitizeString(req.Title, 200),
		Message:  validation.SanitizeString(req.Message, 2000),
		Data:     req.Data,
	})
}

func (a *App) deliver(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
	n.CreatedAt = a.clock.Now()

	stored, err := a.repo.CreateNotification(ctx, n)
	if err != nil {
		return nil, err
	}

	if err := events.Emit(ctx, a.publisher, events.TypeNotification, events.UserRoom(stored.UserID), stored); err != nil {
		log.Warn().Err(err).Str("notification_id", stored.ID.String()).Msg("failed to deliver notification")
	}
	log.Debug().
		Str("notification_id", stored.ID.String()).
		Str("user_id", stored.UserID.String()).
		Str("type", string(stored.Type)).
		Str("priority", string(stored.Priority)).
		Msg("notification sent")
	return stored, nil
}

// List returns the user's notifications and unread count
func (a *App) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, err := a.repo.ListForUser(ctx, userID, filter.UnreadOnly, limit)
	if err != nil {
		return nil, err
	}
	unread, err := a.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Notifications: items, UnreadCount: unread}, nil
}

// UnreadCount counts the user's unread notifications
func (a *App) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return a.repo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications read
func (a *App) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	return a.repo.MarkRead(ctx, userID, id, a.clock.Now())
}

// MarkAllRead marks every unread notification of the user read
func (a *App) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := a.repo.MarkAllRead(ctx, userID, a.clock.Now())
	if err != nil {
		return 0, err
	}
	log.Debug().Str("user_id", userID.String()).Int("marked", n).Msg("notifications marked read")
	return n, nil
}
