package player

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/clients/scorefeed"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/player/db"
	"github.com/stretchr/testify/mock"
)

// mockRepo stubs PlayerRepository; unstubbed methods panic through the embedded interface
type mockRepo struct {
	mock.Mock
	PlayerRepository
}

func (m *mockRepo) UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, bool, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*models.Player), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *mockRepo) SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]models.Player), args.Error(1)
}

func (m *mockRepo) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error) {
	args := m.Called(ctx, leagueID, position, limit)
	return args.Get(0).([]models.Player), args.Error(1)
}

type fakeSource struct {
	players []scorefeed.FeedPlayer
	err     error
}

func (f fakeSource) Players(ctx context.Context) ([]scorefeed.FeedPlayer, error) {
	return f.players, f.err
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) SearchPlayers(ctx context.Context, arg db.SearchPlayersParams) ([]db.Player, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Player), args.Error(1)
}

func (m *mockQuerier) GetPlayer(ctx context.Context, id uuid.UUID) (db.Player, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Player), args.Error(1)
}

// mockApp is a testify mock of PlayerApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Player), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Search(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.([]models.Player), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) ListAvailable(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error) {
	args := m.Called(ctx, leagueID, position, limit)
	if p := args.Get(0); p != nil {
		return p.([]models.Player), args.Error(1)
	}
	return nil, args.Error(1)
}
