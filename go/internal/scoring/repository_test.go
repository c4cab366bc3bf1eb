package scoring

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/scoring/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRepositorySaveScoreStoresStatLine(t *testing.T) {
	ctx := context.Background()
	q := &mockQuerier{}
	playerID := uuid.New()
	at := time.Date(2025, 10, 5, 21, 0, 0, 0, time.UTC)

	q.On("UpsertPlayerScore", ctx, mock.MatchedBy(func(p db.PlayerScore) bool {
		return p.PlayerID == playerID && p.Season == 2025 && p.Week == 5 && p.Format == "ppr" &&
			p.Points == 25 && p.UpdatedAt.Equal(at) &&
			strings.Contains(string(p.Stats), `"rushing_yards":100`)
	})).Return(nil).Once()

	err := NewRepository(q).SaveScore(ctx,
		models.PlayerScore{PlayerID: playerID, Season: 2025, Week: 5, Format: models.ScoringPPR, Points: 25, UpdatedAt: at},
		models.StatLine{PlayerID: playerID, RushingYards: 100, RushingTDs: 1})
	require.NoError(t, err)
	q.AssertExpectations(t)
}

func TestRepositoryPlayerIDs(t *testing.T) {
	ctx := context.Background()
	q := &mockQuerier{}
	id := uuid.New()
	q.On("ListPlayersByExternalIDs", ctx, []string{"sf-cmc", "nobody"}).
		Return([]db.PlayerRef{{ID: id, ExternalID: "sf-cmc"}}, nil).Once()

	repo := NewRepository(q)
	got, err := repo.PlayerIDs(ctx, []string{"sf-cmc", "nobody"})
	require.NoError(t, err)
	assert.Equal(t, map[string]uuid.UUID{"sf-cmc": id}, got)

	got, err = repo.PlayerIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	q.AssertNumberOfCalls(t, "ListPlayersByExternalIDs", 1)
}

func TestRepositoryLeague(t *testing.T) {
	ctx := context.Background()
	q := &mockQuerier{}
	id := uuid.New()
	q.On("GetActiveLeague", ctx, id).Return(db.ActiveLeague{ID: id, Season: 2025, CurrentWeek: 9, ScoringFormat: "standard"}, nil).Once()
	q.On("GetActiveLeague", ctx, mock.Anything).Return(db.ActiveLeague{}, sql.ErrNoRows)

	repo := NewRepository(q)
	l, err := repo.League(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ActiveLeague{ID: id, Season: 2025, Week: 9, Format: models.ScoringStandard}, *l)

	_, err = repo.League(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepositoryTeamPlayers(t *testing.T) {
	ctx := context.Background()
	q := &mockQuerier{}
	teamID, scored, idle := uuid.New(), uuid.New(), uuid.New()
	league := ActiveLeague{ID: uuid.New(), Season: 2025, Week: 5, Format: models.ScoringPPR}
	q.On("ListTeamPlayerScores", ctx, db.ListTeamPlayerScoresParams{TeamID: teamID, Season: 2025, Week: 5, Format: "ppr"}).
		Return([]db.ListTeamPlayerScoresRow{
			{PlayerID: scored, PlayerName: "Puka Nacua", Position: "STARTER", Points: sql.NullFloat64{Float64: 19.5, Valid: true}},
			{PlayerID: idle, PlayerName: "Bench Guy", Position: "BENCH"},
		}, nil).Once()

	players, err := NewRepository(q).TeamPlayers(ctx, teamID, league, 5)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.NotNil(t, players[0].Points)
	assert.Equal(t, 19.5, *players[0].Points)
	assert.Equal(t, models.RosterPositionBench, players[1].Position)
	assert.Nil(t, players[1].Points)
}
