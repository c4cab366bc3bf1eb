package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/outbox/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertOutboxEvent(ctx context.Context, arg db.InsertOutboxEventParams) error
	FetchUnsentOutbox(ctx context.Context, limit int32) ([]db.EventOutbox, error)
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (db.EventOutbox, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	CountPendingOutbox(ctx context.Context) (int64, error)
}

// Repository reads and writes the event_outbox table
type Repository struct {
	queries Querier
}

func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// Insert stores ev for the relay. The table trigger notifies listeners.
func (r *Repository) Insert(ctx context.Context, ev events.Event) error {
	err := r.queries.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:        ev.ID,
		Room:      ev.Room,
		EventType: string(ev.Type),
		Payload:   pqtype.NullRawMessage{RawMessage: ev.Data, Valid: true},
		CreatedAt: ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", ev.Type, err)
	}
	return nil
}

// FetchUnsent returns up to limit unsent events, oldest first
func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]events.Event, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	out := make([]events.Event, len(rows))
	for i, row := range rows {
		out[i] = toEvent(row)
	}
	return out, nil
}

// FetchByID returns an unsent event. A sent or missing event is ErrNotFound.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to fetch outbox event")
	}
	ev := toEvent(row)
	return &ev, nil
}

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := r.queries.MarkOutboxSent(ctx, id, at); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	n, err := r.queries.CountPendingOutbox(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending outbox events: %w", err)
	}
	return int(n), nil
}

func toEvent(row db.EventOutbox) events.Event {
	return events.Event{
		ID:        row.ID,
		Type:      events.Type(row.EventType),
		Room:      row.Room,
		Timestamp: row.CreatedAt,
		Data:      row.Payload.RawMessage,
	}
}
