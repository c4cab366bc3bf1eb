// Package eventstest provides an in-memory event publisher for tests.
package eventstest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mcdev12/gridiron/go/internal/events"
)

// Recorder keeps every published event
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *Recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of what has been published
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the published events of type t
func (r *Recorder) OfType(t events.Type) []events.Event {
	var out []events.Event
	for _, ev := range r.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Decode unmarshals an event's payload into dst
func Decode(ev events.Event, dst any) error {
	return json.Unmarshal(ev.Data, dst)
}
