package outbox

import (
	"context"

	"github.com/mcdev12/gridiron/go/internal/events"
)

// Inserter stores an event in the outbox
type Inserter interface {
	Insert(ctx context.Context, ev events.Event) error
}

// Writer is the events.Publisher used in outbox mode. Events land in the
// event_outbox table and reach websocket clients through the relay.
type Writer struct {
	store Inserter
}

func NewWriter(store Inserter) *Writer {
	return &Writer{store: store}
}

func (w *Writer) Publish(ctx context.Context, ev events.Event) error {
	return w.store.Insert(ctx, ev)
}
