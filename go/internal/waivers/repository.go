package waivers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/mcdev12/gridiron/go/internal/waivers/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateWaiverClaim(ctx context.Context, arg db.CreateWaiverClaimParams) (db.WaiverClaim, error)
	GetWaiverClaim(ctx context.Context, id uuid.UUID) (db.WaiverClaim, error)
	ListLeagueClaims(ctx context.Context, arg db.ListLeagueClaimsParams) ([]db.WaiverClaim, error)
	ListPendingClaimsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]db.WaiverClaim, error)
	CancelWaiverClaim(ctx context.Context, arg db.CancelWaiverClaimParams) (int64, error)
	ResolveWaiverClaim(ctx context.Context, arg db.ResolveWaiverClaimParams) error
	ListDueLeagues(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ListWaiverTeamsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]db.WaiverTeam, error)
	ListRosterSlots(ctx context.Context, leagueID uuid.UUID) ([]db.RosterSlot, error)
	GetRosterSlot(ctx context.Context, arg db.GetRosterSlotParams) (db.RosterSlot, error)
	DropRosterPlayer(ctx context.Context, arg db.DropRosterPlayerParams) (int64, error)
	AddWaiverPlayer(ctx context.Context, arg db.AddWaiverPlayerParams) error
	SetTeamFaab(ctx context.Context, arg db.SetTeamFaabParams) error
	SetTeamWaiverPriority(ctx context.Context, arg db.SetTeamWaiverPriorityParams) error
}

// Repository implements waiver data access operations
type Repository struct {
	queries Querier
	conn    *sql.DB
}

// NewRepository creates a new waivers repository. A waiver run is applied in
// one transaction on conn; when conn is nil it runs on querier.
func NewRepository(querier Querier, conn *sql.DB) *Repository {
	return &Repository{
		queries: querier,
		conn:    conn,
	}
}

func (r *Repository) inTx(ctx context.Context, fn func(q Querier) error) error {
	if r.conn == nil {
		return fn(r.queries)
	}
	return sqlutil.Run(ctx, r.conn, db.New(r.conn).WithTx, func(q *db.Queries) error {
		return fn(q)
	})
}

// CreateClaim stores a pending claim
func (r *Repository) CreateClaim(ctx context.Context, params CreateClaimParams) (*models.WaiverClaim, error) {
	c, err := r.queries.CreateWaiverClaim(ctx, db.CreateWaiverClaimParams{
		LeagueID:     params.LeagueID,
		TeamID:       params.TeamID,
		PlayerID:     params.PlayerID,
		DropPlayerID: sqlutil.ToNullUUID(params.DropPlayerID),
		BidAmount:    int32(params.BidAmount),
		Priority:     int32(params.Priority),
		ProcessDate:  params.ProcessDate,
		SubmittedAt:  params.SubmittedAt,
	})
	if _, ok := sqlutil.IsUniqueViolation(err); ok {
		return nil, apperr.New(apperr.ErrConflict, "You already have a pending claim for this player")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create waiver claim: %w", err)
	}
	return r.dbClaimToModel(c), nil
}

// GetClaim retrieves a claim by ID
func (r *Repository) GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error) {
	c, err := r.queries.GetWaiverClaim(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get waiver claim")
	}
	return r.dbClaimToModel(c), nil
}

// ListClaims returns a league's claims, newest first. A nil status lists every status.
func (r *Repository) ListClaims(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.WaiverClaimStatus) ([]models.WaiverClaim, error) {
	params := db.ListLeagueClaimsParams{
		LeagueID: leagueID,
		TeamID:   sqlutil.ToNullUUID(teamID),
	}
	if status != nil {
		params.Status = sql.NullString{String: string(*status), Valid: true}
	}
	rows, err := r.queries.ListLeagueClaims(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiver claims: %w", err)
	}
	out := make([]models.WaiverClaim, len(rows))
	for i, c := range rows {
		out[i] = *r.dbClaimToModel(c)
	}
	return out, nil
}

// CancelClaim cancels a claim that is still pending
func (r *Repository) CancelClaim(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.queries.CancelWaiverClaim(ctx, db.CancelWaiverClaimParams{ID: id, CancelledAt: at})
	if err != nil {
		return fmt.Errorf("failed to cancel waiver claim: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrConflict, "Cannot cancel a processed waiver claim")
	}
	return nil
}

// RosterOwner returns the team holding the player in the league, or nil
func (r *Repository) RosterOwner(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error) {
	slot, err := r.queries.GetRosterSlot(ctx, db.GetRosterSlotParams{LeagueID: leagueID, PlayerID: playerID})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster slot: %w", err)
	}
	return &slot.FantasyTeamID, nil
}

// ListDueLeagues returns leagues with pending claims due at or before now
func (r *Repository) ListDueLeagues(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	ids, err := r.queries.ListDueLeagues(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due leagues: %w", err)
	}
	return ids, nil
}

// ProcessClaims locks the league's pending claims and teams, lets resolve
// decide them, and applies the decision in the same transaction.
func (r *Repository) ProcessClaims(ctx context.Context, leagueID uuid.UUID, resolve func(RunInput) *models.WaiverRun) (*models.WaiverRun, error) {
	var run *models.WaiverRun
	err := r.inTx(ctx, func(q Querier) error {
		in, err := r.loadRunInput(ctx, q, leagueID)
		if err != nil {
			return err
		}
		run = resolve(in)
		run.LeagueID = leagueID
		return r.applyRun(ctx, q, leagueID, run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *Repository) loadRunInput(ctx context.Context, q Querier, leagueID uuid.UUID) (RunInput, error) {
	var in RunInput

	teams, err := q.ListWaiverTeamsForUpdate(ctx, leagueID)
	if err != nil {
		return in, fmt.Errorf("failed to lock league teams: %w", err)
	}
	for _, t := range teams {
		in.Teams = append(in.Teams, models.FantasyTeam{
			ID:             t.ID,
			LeagueID:       leagueID,
			OwnerID:        t.OwnerID,
			Name:           t.Name,
			Wins:           int(t.Wins),
			Losses:         int(t.Losses),
			Ties:           int(t.Ties),
			PointsFor:      t.PointsFor,
			WaiverPriority: int(t.WaiverPriority),
			FAABRemaining:  int(t.FaabRemaining),
		})
	}

	claims, err := q.ListPendingClaimsForUpdate(ctx, leagueID)
	if err != nil {
		return in, fmt.Errorf("failed to lock pending claims: %w", err)
	}
	for _, c := range claims {
		in.Claims = append(in.Claims, *r.dbClaimToModel(c))
	}

	slots, err := q.ListRosterSlots(ctx, leagueID)
	if err != nil {
		return in, fmt.Errorf("failed to list roster slots: %w", err)
	}
	for _, s := range slots {
		in.Roster = append(in.Roster, RosterSlot{
			TeamID:   s.FantasyTeamID,
			PlayerID: s.PlayerID,
			Position: models.RosterPosition(s.Position),
		})
	}
	return in, nil
}

func (r *Repository) applyRun(ctx context.Context, q Querier, leagueID uuid.UUID, run *models.WaiverRun) error {
	for _, o := range run.Awarded {
		if o.DropPlayerID != nil {
			n, err := q.DropRosterPlayer(ctx, db.DropRosterPlayerParams{FantasyTeamID: o.TeamID, PlayerID: *o.DropPlayerID})
			if err != nil {
				return fmt.Errorf("failed to drop player for claim %s: %w", o.ClaimID, err)
			}
			if n == 0 {
				return fmt.Errorf("drop player %s left team %s during waiver run", *o.DropPlayerID, o.TeamID)
			}
		}
		err := q.AddWaiverPlayer(ctx, db.AddWaiverPlayerParams{
			LeagueID:        leagueID,
			FantasyTeamID:   o.TeamID,
			PlayerID:        o.PlayerID,
			AcquisitionCost: int32(o.BidAmount),
		})
		if err != nil {
			return fmt.Errorf("failed to roster claimed player %s: %w", o.PlayerID, err)
		}
		if err := r.resolveClaim(ctx, q, o, models.WaiverClaimSuccessful, run.ProcessedAt); err != nil {
			return err
		}
	}
	for _, o := range run.Failed {
		if err := r.resolveClaim(ctx, q, o, models.WaiverClaimFailed, run.ProcessedAt); err != nil {
			return err
		}
	}
	for _, u := range run.BudgetUpdates {
		if err := q.SetTeamFaab(ctx, db.SetTeamFaabParams{ID: u.TeamID, FaabRemaining: int32(u.NewBudget)}); err != nil {
			return fmt.Errorf("failed to update FAAB budget: %w", err)
		}
	}
	for _, u := range run.PriorityUpdates {
		if err := q.SetTeamWaiverPriority(ctx, db.SetTeamWaiverPriorityParams{ID: u.TeamID, WaiverPriority: int32(u.NewPriority)}); err != nil {
			return fmt.Errorf("failed to update waiver priority: %w", err)
		}
	}
	return nil
}

func (r *Repository) resolveClaim(ctx context.Context, q Querier, o models.WaiverOutcome, status models.WaiverClaimStatus, at time.Time) error {
	err := q.ResolveWaiverClaim(ctx, db.ResolveWaiverClaimParams{
		ID:            o.ClaimID,
		Status:        string(status),
		FailureReason: o.Reason,
		ProcessedAt:   at,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve waiver claim %s: %w", o.ClaimID, err)
	}
	return nil
}

// dbClaimToModel converts a database claim to domain model
func (r *Repository) dbClaimToModel(c db.WaiverClaim) *models.WaiverClaim {
	return &models.WaiverClaim{
		ID:            c.ID,
		LeagueID:      c.LeagueID,
		TeamID:        c.TeamID,
		PlayerID:      c.PlayerID,
		DropPlayerID:  sqlutil.FromNullUUID(c.DropPlayerID),
		BidAmount:     int(c.BidAmount),
		Priority:      int(c.Priority),
		Status:        models.WaiverClaimStatus(c.Status),
		FailureReason: c.FailureReason,
		ProcessDate:   c.ProcessDate,
		SubmittedAt:   c.SubmittedAt,
		ProcessedAt:   sqlutil.FromSqlTime(c.ProcessedAt),
	}
}
