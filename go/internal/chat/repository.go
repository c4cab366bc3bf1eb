package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/chat/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	EnsureRoom(ctx context.Context, arg db.EnsureRoomParams) (db.ChatRoom, error)
	CreateMessage(ctx context.Context, arg db.CreateMessageParams) (db.ChatMessage, error)
	GetMessage(ctx context.Context, id uuid.UUID) (db.ChatMessage, error)
	ListRoomMessages(ctx context.Context, arg db.ListRoomMessagesParams) ([]db.ChatMessage, error)
	SearchLeagueMessages(ctx context.Context, arg db.SearchLeagueMessagesParams) ([]db.ChatMessage, error)
	SoftDeleteMessage(ctx context.Context, arg db.SoftDeleteMessageParams) (int64, error)
	AddReaction(ctx context.Context, arg db.AddReactionParams) error
	RemoveReaction(ctx context.Context, arg db.RemoveReactionParams) (int64, error)
	ListReactionCounts(ctx context.Context, messageIDs []uuid.UUID) ([]db.ReactionCount, error)
	ListLeagueMembersByUsername(ctx context.Context, arg db.ListLeagueMembersByUsernameParams) ([]db.LeagueMember, error)
}

// Repository implements chat data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new chat repository
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// EnsureRoom returns the league's room of the given type, creating it on first use
func (r *Repository) EnsureRoom(ctx context.Context, leagueID uuid.UUID, roomType models.ChatRoomType) (*models.ChatRoom, error) {
	row, err := r.queries.EnsureRoom(ctx, db.EnsureRoomParams{
		LeagueID: leagueID,
		RoomType: string(roomType),
		Name:     roomNames[roomType],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure %s room: %w", roomType, err)
	}
	return dbRoomToModel(row), nil
}

// CreateMessage stores a message
func (r *Repository) CreateMessage(ctx context.Context, room *models.ChatRoom, userID uuid.UUID, body string, at time.Time) (*models.ChatMessage, error) {
	row, err := r.queries.CreateMessage(ctx, db.CreateMessageParams{
		RoomID:    room.ID,
		LeagueID:  room.LeagueID,
		UserID:    userID,
		Body:      body,
		CreatedAt: at,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return dbMessageToModel(row), nil
}

// GetMessage loads a message, including soft-deleted ones
func (r *Repository) GetMessage(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	row, err := r.queries.GetMessage(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get message")
	}
	return dbMessageToModel(row), nil
}

// ListMessages returns up to limit visible messages older than before, newest
// first, with their reaction counts
func (r *Repository) ListMessages(ctx context.Context, roomID uuid.UUID, before *uuid.UUID, limit int) ([]models.ChatMessage, error) {
	rows, err := r.queries.ListRoomMessages(ctx, db.ListRoomMessagesParams{
		RoomID: roomID,
		Before: sqlutil.ToNullUUID(before),
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return r.withReactions(ctx, rows)
}

// SearchMessages finds visible messages in a league whose body contains term
func (r *Repository) SearchMessages(ctx context.Context, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error) {
	rows, err := r.queries.SearchLeagueMessages(ctx, db.SearchLeagueMessagesParams{
		LeagueID: leagueID,
		Pattern:  escapeLike(term),
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	return r.withReactions(ctx, rows)
}

// SoftDelete hides a message. Deleting it twice is a conflict.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.queries.SoftDeleteMessage(ctx, db.SoftDeleteMessageParams{ID: id, DeletedAt: at})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrConflict, "Message was already removed")
	}
	return nil
}

// AddReaction records a user's emoji on a message
func (r *Repository) AddReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string, at time.Time) error {
	err := r.queries.AddReaction(ctx, db.AddReactionParams{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: at,
	})
	if _, ok := sqlutil.IsUniqueViolation(err); ok {
		return apperr.New(apperr.ErrConflict, "You already reacted with this emoji")
	}
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// RemoveReaction deletes a user's emoji from a message
func (r *Repository) RemoveReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) error {
	n, err := r.queries.RemoveReaction(ctx, db.RemoveReactionParams{MessageID: messageID, UserID: userID, Emoji: emoji})
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrNotFound, "Reaction not found")
	}
	return nil
}

// ReactionCounts returns the per-emoji counts of one message
func (r *Repository) ReactionCounts(ctx context.Context, messageID uuid.UUID) ([]models.ChatReactionCount, error) {
	counts, err := r.reactionCounts(ctx, []uuid.UUID{messageID})
	if err != nil {
		return nil, err
	}
	return counts[messageID], nil
}

// MembersByUsername resolves lower-cased usernames to members of the league
func (r *Repository) MembersByUsername(ctx context.Context, leagueID uuid.UUID, usernames []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}
	rows, err := r.queries.ListLeagueMembersByUsername(ctx, db.ListLeagueMembersByUsernameParams{
		LeagueID:  leagueID,
		Usernames: usernames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mentions: %w", err)
	}
	for _, row := range rows {
		out[strings.ToLower(row.Username)] = row.UserID
	}
	return out, nil
}

func (r *Repository) withReactions(ctx context.Context, rows []db.ChatMessage) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	counts, err := r.reactionCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		out[i] = *dbMessageToModel(row)
		out[i].Reactions = counts[row.ID]
	}
	return out, nil
}

func (r *Repository) reactionCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.ChatReactionCount, error) {
	rows, err := r.queries.ListReactionCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}
	out := make(map[uuid.UUID][]models.ChatReactionCount)
	for _, row := range rows {
		out[row.MessageID] = append(out[row.MessageID], models.ChatReactionCount{Emoji: row.Emoji, Count: int(row.Count)})
	}
	return out, nil
}

// escapeLike makes term match literally inside an ILIKE pattern
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func dbRoomToModel(r db.ChatRoom) *models.ChatRoom {
	return &models.ChatRoom{
		ID:        r.ID,
		LeagueID:  r.LeagueID,
		Type:      models.ChatRoomType(r.RoomType),
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func dbMessageToModel(m db.ChatMessage) *models.ChatMessage {
	return &models.ChatMessage{
		ID:        m.ID,
		RoomID:    m.RoomID,
		LeagueID:  m.LeagueID,
		UserID:    m.UserID,
		Username:  m.Username,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		DeletedAt: sqlutil.FromSqlTime(m.DeletedAt),
	}
}
