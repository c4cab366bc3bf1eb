package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	sendBuffer      = 256
	broadcastBuffer = 1000
)

// ErrBroadcastFull is returned by Publish when the hub cannot keep up
var ErrBroadcastFull = errors.New("realtime: broadcast buffer full")

// Membership checks that a user may join a league room
type Membership interface {
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// Config holds websocket connection settings
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConfig returns the connection settings used when none are configured
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 4096,
	}
}

// Stats describes the hub at a point in time
type Stats struct {
	Connections     int   `json:"connections"`
	Rooms           int   `json:"rooms"`
	MessagesSent    int64 `json:"messages_sent"`
	MessagesDropped int64 `json:"messages_dropped"`
}

// Hub fans events out to websocket connections grouped by room. Every
// connection sits in its user room; league rooms are joined on request.
type Hub struct {
	leagues  Membership
	config   Config
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*Connection]struct{}
	conns map[*Connection]struct{}

	broadcastCh chan events.Event
	sent        atomic.Int64
	dropped     atomic.Int64
}

// NewHub creates a hub. Zero config values take defaults.
func NewHub(leagues Membership, config Config) *Hub {
	def := DefaultConfig()
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = def.PingInterval
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = def.MaxMessageSize
	}
	checkOrigin := config.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Hub{
		leagues: leagues,
		config:  config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		rooms:       make(map[string]map[*Connection]struct{}),
		conns:       make(map[*Connection]struct{}),
		broadcastCh: make(chan events.Event, broadcastBuffer),
	}
}

// Run delivers queued events until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("realtime hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("realtime hub stopped")
			return
		case ev := <-h.broadcastCh:
			h.deliver(ev)
		}
	}
}

// Publish queues an event for its room. It never blocks.
func (h *Hub) Publish(_ context.Context, ev events.Event) error {
	select {
	case h.broadcastCh <- ev:
		return nil
	default:
		h.dropped.Add(1)
		log.Warn().Str("room", ev.Room).Str("event_type", string(ev.Type)).Msg("broadcast channel full, dropping event")
		return ErrBroadcastFull
	}
}

// Serve upgrades the request and attaches the connection to user's room
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, user *models.User) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newConnection(h, ws, user, sendBuffer)
	h.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.id.String()).
		Str("user_id", user.ID.String()).
		Msg("websocket connection established")
	return nil
}

// Stats returns current connection and delivery counts
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Connections:     len(h.conns),
		Rooms:           len(h.rooms),
		MessagesSent:    h.sent.Load(),
		MessagesDropped: h.dropped.Load(),
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
	h.joinLocked(c, events.UserRoom(c.user.ID))
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	delete(h.conns, c)
	c.closed = true
	close(c.send)

	log.Info().
		Str("connection_id", c.id.String()).
		Str("user_id", c.user.ID.String()).
		Msg("connection unregistered")
}

func (h *Hub) join(c *Connection, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.closed {
		h.joinLocked(c, room)
	}
}

func (h *Hub) leave(c *Connection, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) joinLocked(c *Connection, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Connection]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Connection, room string) {
	delete(c.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) inRoom(c *Connection, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

// deliver writes ev to every connection in its room. Connections whose send
// buffer is full are dropped.
func (h *Hub) deliver(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	var slow []*Connection
	h.mu.RLock()
	members := h.rooms[ev.Room]
	n := len(members)
	for c := range members {
		select {
		case c.send <- data:
			h.sent.Add(1)
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.dropped.Add(1)
		log.Warn().
			Str("connection_id", c.id.String()).
			Str("user_id", c.user.ID.String()).
			Msg("connection send buffer full, closing connection")
		h.unregister(c)
		_ = c.ws.Close()
	}

	log.Debug().
		Str("event_type", string(ev.Type)).
		Str("room", ev.Room).
		Int("connections", n).
		Msg("event broadcasted")
}

// sendTo writes an event to a single connection
func (h *Hub) sendTo(c *Connection, ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal direct event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
		h.sent.Add(1)
	default:
		h.dropped.Add(1)
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.unregister(c)
		_ = c.ws.Close()
	}
}
