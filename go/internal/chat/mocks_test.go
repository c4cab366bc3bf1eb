package chat

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/chat/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/mock"
)

type reactionKey struct {
	messageID uuid.UUID
	userID    uuid.UUID
	emoji     string
}

// fakeRepo is an in-memory ChatRepository
type fakeRepo struct {
	mu        sync.Mutex
	rooms     map[models.ChatRoomType]*models.ChatRoom
	messages  []*models.ChatMessage
	reactions map[reactionKey]time.Time
	usernames map[uuid.UUID]string
	members   map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms:     map[models.ChatRoomType]*models.ChatRoom{},
		reactions: map[reactionKey]time.Time{},
		usernames: map[uuid.UUID]string{},
		members:   map[string]uuid.UUID{},
	}
}

func (f *fakeRepo) EnsureRoom(ctx context.Context, leagueID uuid.UUID, roomType models.ChatRoomType) (*models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomType]
	if !ok {
		room = &models.ChatRoom{ID: uuid.New(), LeagueID: leagueID, Type: roomType, Name: roomNames[roomType]}
		f.rooms[roomType] = room
	}
	cp := *room
	return &cp, nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, room *models.ChatRoom, userID uuid.UUID, body string, at time.Time) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := &models.ChatMessage{
		ID:        uuid.New(),
		RoomID:    room.ID,
		LeagueID:  room.LeagueID,
		UserID:    userID,
		Username:  f.usernames[userID],
		Body:      body,
		CreatedAt: at,
	}
	f.messages = append(f.messages, msg)
	cp := *msg
	return &cp, nil
}

func (f *fakeRepo) GetMessage(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) ListMessages(ctx context.Context, roomID uuid.UUID, before *uuid.UUID, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cutoff *time.Time
	if before != nil {
		for _, m := range f.messages {
			if m.ID == *before {
				cutoff = &m.CreatedAt
			}
		}
	}
	out := []models.ChatMessage{}
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		if m.RoomID != roomID || m.DeletedAt != nil {
			continue
		}
		if cutoff != nil && !m.CreatedAt.Before(*cutoff) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeRepo) SearchMessages(ctx context.Context, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChatMessage{}
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		if m.LeagueID == leagueID && m.DeletedAt == nil && strings.Contains(strings.ToLower(m.Body), strings.ToLower(term)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			if m.DeletedAt != nil {
				return apperr.New(apperr.ErrConflict, "Message was already removed")
			}
			m.DeletedAt = &at
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeRepo) AddReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := reactionKey{messageID, userID, emoji}
	if _, ok := f.reactions[k]; ok {
		return apperr.New(apperr.ErrConflict, "You already reacted with this emoji")
	}
	f.reactions[k] = at
	return nil
}

func (f *fakeRepo) RemoveReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := reactionKey{messageID, userID, emoji}
	if _, ok := f.reactions[k]; !ok {
		return apperr.New(apperr.ErrNotFound, "Reaction not found")
	}
	delete(f.reactions, k)
	return nil
}

func (f *fakeRepo) ReactionCounts(ctx context.Context, messageID uuid.UUID) ([]models.ChatReactionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for k := range f.reactions {
		if k.messageID == messageID {
			counts[k.emoji]++
		}
	}
	out := []models.ChatReactionCount{}
	for emoji, n := range counts {
		out = append(out, models.ChatReactionCount{Emoji: emoji, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Emoji < out[j].Emoji })
	return out, nil
}

func (f *fakeRepo) MembersByUsername(ctx context.Context, leagueID uuid.UUID, usernames []string) (map[string]uuid.UUID, error) {
	out := map[string]uuid.UUID{}
	for _, name := range usernames {
		if id, ok := f.members[name]; ok {
			out[name] = id
		}
	}
	return out, nil
}

type fakeLeagues struct {
	league  *models.League
	members map[uuid.UUID]bool
}

func (f *fakeLeagues) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	if f.league.ID != id {
		return nil, apperr.ErrNotFound
	}
	cp := *f.league
	return &cp, nil
}

func (f *fakeLeagues) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if leagueID != f.league.ID {
		return apperr.ErrNotFound
	}
	if !f.members[userID] {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) EnsureRoom(ctx context.Context, arg db.EnsureRoomParams) (db.ChatRoom, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.ChatRoom), args.Error(1)
}

func (m *mockQuerier) ListRoomMessages(ctx context.Context, arg db.ListRoomMessagesParams) ([]db.ChatMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ChatMessage), args.Error(1)
}

func (m *mockQuerier) SearchLeagueMessages(ctx context.Context, arg db.SearchLeagueMessagesParams) ([]db.ChatMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ChatMessage), args.Error(1)
}

func (m *mockQuerier) GetMessage(ctx context.Context, id uuid.UUID) (db.ChatMessage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.ChatMessage), args.Error(1)
}

func (m *mockQuerier) SoftDeleteMessage(ctx context.Context, arg db.SoftDeleteMessageParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) AddReaction(ctx context.Context, arg db.AddReactionParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) ListReactionCounts(ctx context.Context, messageIDs []uuid.UUID) ([]db.ReactionCount, error) {
	args := m.Called(ctx, messageIDs)
	return args.Get(0).([]db.ReactionCount), args.Error(1)
}

func (m *mockQuerier) ListLeagueMembersByUsername(ctx context.Context, arg db.ListLeagueMembersByUsernameParams) ([]db.LeagueMember, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.LeagueMember), args.Error(1)
}

// mockApp is a testify mock of ChatApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) ListRooms(ctx context.Context, userID, leagueID uuid.UUID) ([]models.ChatRoom, error) {
	args := m.Called(ctx, userID, leagueID)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) SendMessage(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, req SendMessageRequest) (*models.ChatMessage, error) {
	args := m.Called(ctx, user, leagueID, roomType, req)
	if r := args.Get(0); r != nil {
		return r.(*models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) History(ctx context.Context, userID, leagueID uuid.UUID, roomType models.ChatRoomType, q HistoryQuery) (*History, error) {
	args := m.Called(ctx, userID, leagueID, roomType, q)
	if r := args.Get(0); r != nil {
		return r.(*History), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Search(ctx context.Context, userID, leagueID uuid.UUID, term string, limit int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, userID, leagueID, term, limit)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) React(ctx context.Context, userID, messageID uuid.UUID, req ReactionRequest) ([]models.ChatReactionCount, error) {
	args := m.Called(ctx, userID, messageID, req)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatReactionCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Unreact(ctx context.Context, userID, messageID uuid.UUID, emoji string) ([]models.ChatReactionCount, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatReactionCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Typing(ctx context.Context, user *models.User, leagueID uuid.UUID, roomType models.ChatRoomType, isTyping bool) error {
	return m.Called(ctx, user, leagueID, roomType, isTyping).Error(0)
}

func (m *mockApp) Moderate(ctx context.Context, user *models.User, messageID uuid.UUID) error {
	return m.Called(ctx, user, messageID).Error(0)
}
