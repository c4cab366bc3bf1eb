package waivers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/events/eventstest"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app      *App
	repo     *fakeRepo
	notifier *fakeNotifier
	rec      *eventstest.Recorder
	clock    *clockwork.FakeClock
	league   *models.League
	alpha    models.FantasyTeam
	bravo    models.FantasyTeam
	players  []models.Player
}

func newFixture(t *testing.T, waiverType models.WaiverType) *fixture {
	t.Helper()
	// a Monday
	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC))

	settings := models.DefaultLeagueSettings()
	settings.WaiverType = waiverType
	settings.RosterSize = 3
	league := &models.League{ID: uuid.New(), Name: "Sunday Funday", CommissionerID: uuid.New(), Settings: settings, Status: models.LeagueStatusActive}

	alpha := models.FantasyTeam{ID: uuid.New(), LeagueID: league.ID, OwnerID: league.CommissionerID, Name: "Alpha", WaiverPriority: 1, FAABRemaining: 100}
	bravo := models.FantasyTeam{ID: uuid.New(), LeagueID: league.ID, OwnerID: uuid.New(), Name: "Bravo", WaiverPriority: 2, FAABRemaining: 40}

	players := []models.Player{
		{ID: uuid.New(), FullName: "Puka Nacua", Active: true},
		{ID: uuid.New(), FullName: "Jaylen Warren", Active: true},
		{ID: uuid.New(), FullName: "Rostered Guy", Active: true},
		{ID: uuid.New(), FullName: "Practice Squad", Active: false},
	}
	byID := fakePlayers{}
	for _, p := range players {
		byID[p.ID] = p
	}

	repo := newFakeRepo(alpha, bravo)
	repo.rosterPlayer(alpha.ID, players[2].ID, models.RosterPositionBench)

	f := &fixture{
		repo:     repo,
		notifier: &fakeNotifier{},
		rec:      &eventstest.Recorder{},
		clock:    clock,
		league:   league,
		alpha:    alpha,
		bravo:    bravo,
		players:  players,
	}
	leagues := &fakeLeagues{league: league, members: map[uuid.UUID]bool{alpha.OwnerID: true, bravo.OwnerID: true}}
	f.app = NewApp(repo, leagues, fakeTeams{repo: repo}, byID, f.notifier, f.rec, clock)
	return f
}

func bid(n int) *int { return &n }

func TestSubmitClaim(t *testing.T) {
	f := newFixture(t, models.WaiverTypeFAAB)

	claim, err := f.app.SubmitClaim(context.Background(), f.bravo.OwnerID, f.league.ID, SubmitClaimRequest{
		TeamID:    f.bravo.ID,
		PlayerID:  f.players[0].ID,
		BidAmount: bid(12),
	})
	require.NoError(t, err)

	assert.Equal(t, models.WaiverClaimPending, claim.Status)
	assert.Equal(t, 12, claim.BidAmount)
	assert.Equal(t, 2, claim.Priority)
	assert.Equal(t, f.clock.Now(), claim.SubmittedAt)
	assert.Equal(t, time.Date(2025, 10, 15, 3, 0, 0, 0, time.UTC), claim.ProcessDate)
}

func TestSubmitClaimRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		user    func(f *fixture) uuid.UUID
		league  func(f *fixture) uuid.UUID
		req     func(f *fixture) SubmitClaimRequest
		wantErr error
	}{
		{
			name:   "team from another league",
			league: func(f *fixture) uuid.UUID { return uuid.New() },
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(1)}
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "not the owner",
			user: func(f *fixture) uuid.UUID { return f.alpha.OwnerID },
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(1)}
			},
			wantErr: apperr.ErrForbidden,
		},
		{
			name: "inactive player",
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[3].ID, BidAmount: bid(1)}
			},
			wantErr: apperr.ErrInvalid,
		},
		{
			name: "player already rostered",
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[2].ID, BidAmount: bid(1)}
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "drop player on another team",
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, DropPlayerID: &f.players[2].ID, BidAmount: bid(1)}
			},
			wantErr: apperr.ErrInvalid,
		},
		{
			name: "missing bid",
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID}
			},
			wantErr: apperr.ErrInvalid,
		},
		{
			name: "bid over budget",
			req: func(f *fixture) SubmitClaimRequest {
				return SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(41)}
			},
			wantErr: apperr.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, models.WaiverTypeFAAB)
			user, league := f.bravo.OwnerID, f.league.ID
			if tt.user != nil {
				user = tt.user(f)
			}
			if tt.league != nil {
				league = tt.league(f)
			}
			_, err := f.app.SubmitClaim(ctx, user, league, tt.req(f))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmitClaimDuplicatePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeRolling)
	req := SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID}

	claim, err := f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, req)
	require.NoError(t, err)
	assert.Zero(t, claim.BidAmount)

	_, err = f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, req)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestSubmitBatch(t *testing.T) {
	f := newFixture(t, models.WaiverTypeFAAB)
	res, err := f.app.SubmitBatch(context.Background(), f.bravo.OwnerID, f.league.ID, BatchClaimRequest{
		Claims: []SubmitClaimRequest{
			{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(5)},
			{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(6)},
			{TeamID: f.bravo.ID, PlayerID: f.players[1].ID, BidAmount: bid(7)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Results, 3)
	assert.Equal(t, 1, res.Results[1].Index)
	assert.Equal(t, "You already have a pending claim for this player", res.Results[1].Error)
	assert.NotNil(t, res.Results[2].Claim)
}

func TestSubmitBatchTooLarge(t *testing.T) {
	f := newFixture(t, models.WaiverTypeFAAB)
	claims := make([]SubmitClaimRequest, 11)
	for i := range claims {
		claims[i] = SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: uuid.New(), BidAmount: bid(1)}
	}

	_, err := f.app.SubmitBatch(context.Background(), f.bravo.OwnerID, f.league.ID, BatchClaimRequest{Claims: claims})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestListClaims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeRolling)
	first, err := f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.app.SubmitClaim(ctx, f.alpha.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.alpha.ID, PlayerID: f.players[1].ID})
	require.NoError(t, err)
	require.NoError(t, f.app.CancelClaim(ctx, f.bravo.OwnerID, first.ID))

	pending, err := f.app.ListClaims(ctx, f.bravo.OwnerID, f.league.ID, ClaimFilter{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.alpha.ID, pending[0].TeamID)

	all, err := f.app.ListClaims(ctx, f.bravo.OwnerID, f.league.ID, ClaimFilter{Status: "all", TeamID: &f.bravo.ID})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.WaiverClaimCancelled, all[0].Status)

	_, err = f.app.ListClaims(ctx, f.bravo.OwnerID, f.league.ID, ClaimFilter{Status: "stale"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = f.app.ListClaims(ctx, uuid.New(), f.league.ID, ClaimFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCancelClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeRolling)
	claim, err := f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID})
	require.NoError(t, err)

	err = f.app.CancelClaim(ctx, f.alpha.OwnerID, claim.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, f.app.CancelClaim(ctx, f.bravo.OwnerID, claim.ID))
	err = f.app.CancelClaim(ctx, f.bravo.OwnerID, claim.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = f.app.CancelClaim(ctx, f.bravo.OwnerID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProcessLeagueFAAB(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeFAAB)
	_, err := f.app.SubmitClaim(ctx, f.alpha.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.alpha.ID, PlayerID: f.players[0].ID, BidAmount: bid(30)})
	require.NoError(t, err)
	_, err = f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID, BidAmount: bid(31)})
	require.NoError(t, err)

	run, err := f.app.ProcessLeague(ctx, f.league.ID)
	require.NoError(t, err)

	assert.Equal(t, f.league.ID, run.LeagueID)
	require.Len(t, run.Awarded, 1)
	assert.Equal(t, f.bravo.ID, run.Awarded[0].TeamID)
	assert.Equal(t, 9, f.repo.team(f.bravo.ID).FAABRemaining)
	assert.Equal(t, 100, f.repo.team(f.alpha.ID).FAABRemaining)

	won := f.notifier.ofType(models.NotificationWaiverWon)
	require.Len(t, won, 1)
	assert.Equal(t, f.bravo.OwnerID, won[0].UserID)
	assert.Contains(t, won[0].Message, "Puka Nacua")
	lost := f.notifier.ofType(models.NotificationWaiverLost)
	require.Len(t, lost, 1)
	assert.Equal(t, f.alpha.OwnerID, lost[0].UserID)

	processed := f.rec.OfType(events.TypeWaiverProcessed)
	require.Len(t, processed, 1)
	var payload events.WaiverProcessedPayload
	require.NoError(t, eventstest.Decode(processed[0], &payload))
	assert.Equal(t, 2, payload.TotalClaims)
	assert.Equal(t, 1, payload.Successful)
	assert.Equal(t, 1, payload.Failed)
}

func TestProcessLeagueNothingPending(t *testing.T) {
	f := newFixture(t, models.WaiverTypeFAAB)

	run, err := f.app.ProcessLeague(context.Background(), f.league.ID)
	require.NoError(t, err)
	assert.Zero(t, run.TotalClaims)
	assert.Empty(t, f.rec.Events())
	assert.Empty(t, f.notifier.sent)
}

func TestProcessLeagueAsCommissionerOnly(t *testing.T) {
	f := newFixture(t, models.WaiverTypeFAAB)

	_, err := f.app.ProcessLeagueAs(context.Background(), f.bravo.OwnerID, f.league.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.app.ProcessLeagueAs(context.Background(), f.alpha.OwnerID, f.league.ID)
	assert.NoError(t, err)
}

func TestProcessLeagueOneRunAtATime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeFAAB)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.repo.beforeProcess = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.app.ProcessLeague(ctx, f.league.ID)
		done <- err
	}()
	<-entered

	_, err := f.app.ProcessLeague(ctx, f.league.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	close(release)
	require.NoError(t, <-done)

	// the lock is released once the first run finishes
	_, err = f.app.ProcessLeague(ctx, f.league.ID)
	assert.NoError(t, err)
}

func TestProcessDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.WaiverTypeRolling)
	_, err := f.app.SubmitClaim(ctx, f.bravo.OwnerID, f.league.ID, SubmitClaimRequest{TeamID: f.bravo.ID, PlayerID: f.players[0].ID})
	require.NoError(t, err)

	require.NoError(t, f.app.ProcessDue(ctx))
	assert.Empty(t, f.rec.OfType(events.TypeWaiverProcessed))

	// Monday noon to Wednesday 03:00
	f.clock.Advance(39 * time.Hour)
	require.NoError(t, f.app.ProcessDue(ctx))
	assert.Len(t, f.rec.OfType(events.TypeWaiverProcessed), 1)
	claims, err := f.app.ListClaims(ctx, f.bravo.OwnerID, f.league.ID, ClaimFilter{Status: string(models.WaiverClaimSuccessful)})
	require.NoError(t, err)
	assert.Len(t, claims, 1)
	// already last in line, so the order does not change
	assert.Equal(t, 2, f.repo.team(f.bravo.ID).WaiverPriority)
}
