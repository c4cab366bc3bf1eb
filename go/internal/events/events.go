package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names an event delivered to websocket clients
type Type string

const (
	TypeNewMessage       Type = "new_message"
	TypeTypingIndicator  Type = "typing_indicator"
	TypeMessageReaction  Type = "message_reaction"
	TypeMessageModerated Type = "message_moderated"
	TypeScoreUpdate      Type = "score_update"
	TypeNotification     Type = "notification"
	TypeDraftStarted     Type = "draft_started"
	TypePickStarted      Type = "pick_started"
	TypeDraftPick        Type = "draft_pick"
	TypeDraftPaused      Type = "draft_paused"
	TypeDraftResumed     Type = "draft_resumed"
	TypeDraftCompleted   Type = "draft_completed"
	TypeWaiverProcessed  Type = "waiver_processed"
	TypeTradeProposed    Type = "trade_proposed"
	TypeTradeUpdated     Type = "trade_updated"
	TypeRosterChanged    Type = "roster_changed"
	TypeLeagueUpdated    Type = "league_updated"
	TypeUserJoined       Type = "user_joined"
	TypeUserLeft         Type = "user_left"
	TypePong             Type = "pong"
	TypeError            Type = "error"
)

// Event is the envelope every realtime message is wrapped in
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      Type            `json:"type"`
	Room      string          `json:"room"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New builds an event for room with data marshalled as the payload
func New(t Type, room string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Event{
		ID:        uuid.New(),
		Type:      t,
		Room:      room,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// LeagueRoom is the room every member of a league can join
func LeagueRoom(leagueID uuid.UUID) string {
	return "league:" + leagueID.String()
}

// UserRoom is the private room of a single user
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// Publisher delivers events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop discards every event
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Emit builds and publishes an event in one step
func Emit(ctx context.Context, p Publisher, t Type, room string, data any) error {
	ev, err := New(t, room, data)
	if err != nil {
		return err
	}
	return p.Publish(ctx, ev)
}

// SubjectPrefix prefixes the JetStream subject of every relayed event
const SubjectPrefix = "gridiron.events"

// Subject is the JetStream subject an event of type t is relayed on
func Subject(t Type) string {
	return SubjectPrefix + "." + string(t)
}
