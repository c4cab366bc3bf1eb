package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// ChatRepository defines what the app layer needs from the repository
type ChatRepository interface {
	EnsureRoom(ctx context.Context, leagueID uuid.UUID, roomType models.ChatRoomType) (*models.ChatRoom, error)
	CreateMessage(ctx context.Context, room *models.ChatRoom, userID uuid.UUID, body string, at time.Time) (*models.ChatMessage, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, roomID uuid.UUID, before *uuid.UUID, limit int) ([]models.ChatMessage, error)
	SearchMessages(ctx context.Context, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error)
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	AddReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string, at time.Time) error
	RemoveReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) error
	ReactionCounts(ctx context.Context, messageID uuid.UUID) ([]models.ChatReactionCount, error)
	MembersByUsername(ctx context.Context, leagueID uuid.UUID, usernames []string) (map[string]uuid.UUID, error)
}

// LeaguesApp is the part of the leagues application chat needs
type LeaguesApp interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// Notifier stores and delivers a notification to one user
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// App handles league chat
type App struct {
	repo      ChatRepository
	leagues   LeaguesApp
	notifier  Notifier
	publisher events.Publisher
	clock     clockwork.Clock
}

// NewApp creates a new chat App
func NewApp(repo ChatRepository, leagues LeaguesApp, notifier Notifier, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		leagues:   leagues,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
	}
}

// ListRooms returns the league's rooms, creating any that do not exist yet
func (a *App) ListRooms(ctx context.Context, userID, leagueID uuid.UUID) ([]models.ChatRoom, error) {
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	rooms := make([]models.ChatRoom, 0, len(models.ChatRoomTypes))
	for _, t := range models.ChatRoomTypes {
		room, err := a.repo.EnsureRoom(ctx, leagueID, t)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

// room checks membership and returns the league room of the given type
func (a *App) room(ctx context.Context, userID, leagueID uuid.UUID, roomType models.ChatRoomType) (*models.ChatRoom, error) {
	if _, ok := roomNames[roomType]; !ok {
		return nil, apperr.New(apperr.ErrNotFound, "Chat room not found")
	}
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	return a.repo.EnsureRoom(ctx, leagueID, roomType)
}

// SendMessage posts a sanitized message and notifies mentioned members
func (a *App) SendMessage(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, req SendMessageRequest) (*models.ChatMessage, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	body, err := validation.SanitizeChatMessage(req.Body)
	if err != nil {
		return nil, err
	}

	room, err := a.room(ctx, user.ID, leagueID, roomType)
	if err != nil {
		return nil, err
	}

	msg, err := a.repo.CreateMessage(ctx, room, user.ID, body, a.clock.Now())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("message_id", msg.ID.String()).
		Str("league_id", leagueID.String()).
		Str("room", string(roomType)).
		Str("user_id", user.ID.String()).
		Msg("chat message sent")

	if err := events.Emit(ctx, a.publisher, events.TypeNewMessage, events.LeagueRoom(leagueID),
		messagePayload{ChatMessage: *msg, RoomType: roomType}); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to publish chat message")
	}
	a.notifyMentions(ctx, user, room, msg)
	return msg, nil
}

// notifyMentions sends a mention notification to every league member named
// with @username in the message, other than the author
func (a *App) notifyMentions(ctx context.Context, author *models.User, room *models.ChatRoom, msg *models.ChatMessage) {
	names := Mentions(msg.Body)
	if len(names) == 0 {
		return
	}
	members, err := a.repo.MembersByUsername(ctx, room.LeagueID, names)
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to resolve mentions")
		return
	}

	data, _ := json.Marshal(map[string]any{
		"message_id": msg.ID,
		"room_id":    room.ID,
		"room_type":  room.Type,
		"author_id":  author.ID,
	})
	leagueID := room.LeagueID
	for _, name := range names {
		userID, ok := members[name]
		if !ok || userID == author.ID {
			continue
		}
		err := a.notifier.Notify(ctx, models.Notification{
			UserID:   userID,
			LeagueID: &leagueID,
			Type:     models.NotificationMention,
			Priority: models.PriorityNormal,
			Title:    fmt.Sprintf("%s mentioned you in %s", author.Username, room.Name),
			Message:  preview(msg.Body),
			Data:     data,
		})
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to send mention notification")
		}
	}
}

// Mentions returns the distinct lower-cased usernames mentioned in body, in
// order of first appearance
func Mentions(body string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(body, -1) {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= mentionPreviewLen {
		return body
	}
	return string(r[:mentionPreviewLen-3]) + "..."
}

// History returns a page of a room's messages
func (a *App) History(ctx context.Context, userID, leagueID uuid.UUID, roomType models.ChatRoomType, q HistoryQuery) (*History, error) {
	room, err := a.room(ctx, userID, leagueID, roomType)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	// one extra row tells whether an older page exists
	msgs, err := a.repo.ListMessages(ctx, room.ID, q.Before, limit+1)
	if err != nil {
		return nil, err
	}
	h := &History{Room: *room}
	if len(msgs) > limit {
		msgs = msgs[:limit]
		h.HasMore = true
		oldest := msgs[limit-1].ID
		h.NextBefore = &oldest
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	h.Messages = msgs
	return h, nil
}

// Search finds messages in the league containing term
func (a *App) Search(ctx context.Context, userID, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error) {
	term = validation.SanitizeString(term, 100)
	if len([]rune(term)) < minSearchLength {
		return nil, apperr.Field("q", fmt.Sprintf("must be at least %d characters", minSearchLength))
	}
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return a.repo.SearchMessages(ctx, leagueID, term, limit)
}

// visibleMessage loads a message the user may act on
func (a *App) visibleMessage(ctx context.Context, userID, messageID uuid.UUID) (*models.ChatMessage, error) {
	msg, err := a.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.DeletedAt != nil {
		return nil, apperr.New(apperr.ErrNotFound, "Message not found")
	}
	if err := a.leagues.RequireMember(ctx, msg.LeagueID, userID); err != nil {
		return nil, err
	}
	return msg, nil
}

// React adds the user's emoji to a message and returns the new counts
func (a *App) React(ctx context.Context, userID, messageID uuid.UUID, req ReactionRequest) ([]models.ChatReactionCount, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	emoji := strings.TrimSpace(req.Emoji)
	msg, err := a.visibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	if err := a.repo.AddReaction(ctx, msg.ID, userID, emoji, a.clock.Now()); err != nil {
		return nil, err
	}
	a.emitReaction(ctx, msg, userID, emoji, true)
	return a.repo.ReactionCounts(ctx, msg.ID)
}

// Unreact removes the user's emoji from a message and returns the new counts
func (a *App) Unreact(ctx context.Context, userID, messageID uuid.UUID, emoji string) ([]models.ChatReactionCount, error) {
	msg, err := a.visibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	if err := a.repo.RemoveReaction(ctx, msg.ID, userID, emoji); err != nil {
		return nil, err
	}
	a.emitReaction(ctx, msg, userID, emoji, false)
	return a.repo.ReactionCounts(ctx, msg.ID)
}

func (a *App) emitReaction(ctx context.Context, msg *models.ChatMessage, userID uuid.UUID, emoji string, added bool) {
	err := events.Emit(ctx, a.publisher, events.TypeMessageReaction, events.LeagueRoom(msg.LeagueID), events.ReactionPayload{
		MessageID: msg.ID,
		UserID:    userID,
		Emoji:     emoji,
		Added:     added,
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to publish reaction")
	}
}

// Typing broadcasts the user's typing state to the league. Nothing is stored.
func (a *App) Typing(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, isTyping bool) error {
	if _, ok := roomNames[roomType]; !ok {
		return apperr.New(apperr.ErrNotFound, "Chat room not found")
	}
	if err := a.leagues.RequireMember(ctx, leagueID, user.ID); err != nil {
		return err
	}
	return events.Emit(ctx, a.publisher, events.TypeTypingIndicator, events.LeagueRoom(leagueID), events.TypingPayload{
		UserID:   user.ID,
		Username: user.Username,
		RoomType: string(roomType),
		IsTyping: isTyping,
	})
}

// Moderate soft-deletes a message. Only the league commissioner or a site
// admin may do this.
func (a *App) Moderate(ctx context.Context, user *models.User, messageID uuid.UUID) error {
	msg, err := a.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	league, err := a.leagues.GetLeague(ctx, msg.LeagueID)
	if err != nil {
		return err
	}
	if league.CommissionerID != user.ID && user.Role != models.UserRoleAdmin {
		return apperr.New(apperr.ErrForbidden, "Only the commissioner can moderate messages")
	}
	if err := a.repo.SoftDelete(ctx, msg.ID, a.clock.Now()); err != nil {
		return err
	}

	log.Info().
		Str("message_id", msg.ID.String()).
		Str("league_id", msg.LeagueID.String()).
		Str("moderator_id", user.ID.String()).
		Msg("chat message removed")

	if err := events.Emit(ctx, a.publisher, events.TypeMessageModerated, events.LeagueRoom(msg.LeagueID), events.ModerationPayload{
		MessageID:   msg.ID,
		ModeratorID: user.ID,
		Action:      "deleted",
	}); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to publish moderation")
	}
	return nil
}
