package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/rs/zerolog/log"
)

// membershipTimeout bounds the league lookup made for a join request
const membershipTimeout = 5 * time.Second

// Client message types
const (
	msgJoin   = "join"
	msgLeave  = "leave"
	msgTyping = "typing"
	msgPing   = "ping"
)

// clientMessage is a command sent by a websocket client
type clientMessage struct {
	Type     string    `json:"type"`
	LeagueID uuid.UUID `json:"league_id"`
	RoomType string    `json:"room_type,omitempty"`
	IsTyping bool      `json:"is_typing"`
}

// Connection is one authenticated websocket client. rooms and closed are
// guarded by the hub's mutex.
type Connection struct {
	id          uuid.UUID
	user        *models.User
	hub         *Hub
	ws          *websocket.Conn
	send        chan []byte
	connectedAt time.Time

	rooms  map[string]struct{}
	closed bool
}

func newConnection(h *Hub, ws *websocket.Conn, user *models.User, buffer int) *Connection {
	return &Connection{
		id:          uuid.New(),
		user:        user,
		hub:         h,
		ws:          ws,
		send:        make(chan []byte, buffer),
		connectedAt: time.Now(),
		rooms:       make(map[string]struct{}),
	}
}

// writePump drains the send buffer to the socket and pings on an interval
func (c *Connection) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", c.id.String()).Msg("failed to write websocket message")
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("connection_id", c.id.String()).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump reads client commands until the socket closes or goes quiet
func (c *Connection) readPump() {
	cfg := c.hub.config
	defer func() {
		c.hub.unregister(c)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.id.String()).Msg("unexpected websocket close")
			}
			return
		}
		c.handleClientMessage(message)
		_ = c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}

func (c *Connection) handleClientMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.reply(events.TypeError, "", events.ErrorPayload{Message: "Malformed message"})
		return
	}

	switch msg.Type {
	case msgPing:
		c.reply(events.TypePong, "", struct{}{})
	case msgJoin:
		c.joinLeague(msg.LeagueID)
	case msgLeave:
		c.leaveLeague(msg.LeagueID)
	case msgTyping:
		c.typing(msg)
	default:
		c.reply(events.TypeError, "", events.ErrorPayload{Message: "Unknown message type " + msg.Type})
	}
}

func (c *Connection) joinLeague(leagueID uuid.UUID) {
	room := events.LeagueRoom(leagueID)
	if c.hub.inRoom(c, room) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), membershipTimeout)
	defer cancel()
	if err := c.hub.leagues.RequireMember(ctx, leagueID, c.user.ID); err != nil {
		msg, ok := apperr.Message(err)
		if !ok {
			log.Error().Err(err).Str("league_id", leagueID.String()).Msg("failed to check league membership")
			msg = "Could not join league"
		}
		c.reply(events.TypeError, room, events.ErrorPayload{Message: msg})
		return
	}

	c.hub.join(c, room)
	c.announce(events.TypeUserJoined, room)
}

func (c *Connection) leaveLeague(leagueID uuid.UUID) {
	room := events.LeagueRoom(leagueID)
	if !c.hub.inRoom(c, room) {
		return
	}
	c.hub.leave(c, room)
	c.announce(events.TypeUserLeft, room)
}

func (c *Connection) typing(msg clientMessage) {
	room := events.LeagueRoom(msg.LeagueID)
	if !c.hub.inRoom(c, room) {
		c.reply(events.TypeError, room, events.ErrorPayload{Message: "Join the league before typing"})
		return
	}
	err := events.Emit(context.Background(), c.hub, events.TypeTypingIndicator, room, events.TypingPayload{
		UserID:   c.user.ID,
		Username: c.user.Username,
		RoomType: msg.RoomType,
		IsTyping: msg.IsTyping,
	})
	if err != nil {
		log.Warn().Err(err).Str("room", room).Msg("failed to publish typing indicator")
	}
}

func (c *Connection) announce(t events.Type, room string) {
	err := events.Emit(context.Background(), c.hub, t, room, events.PresencePayload{
		UserID:   c.user.ID,
		Username: c.user.Username,
	})
	if err != nil {
		log.Warn().Err(err).Str("room", room).Msg("failed to publish presence")
	}
}

func (c *Connection) reply(t events.Type, room string, data any) {
	ev, err := events.New(t, room, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to build reply")
		return
	}
	c.hub.sendTo(c, ev)
}
