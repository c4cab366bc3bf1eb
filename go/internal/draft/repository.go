package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/draft/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateDraft(ctx context.Context, arg db.CreateDraftParams) (db.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (db.Draft, error)
	GetActiveDraftForLeague(ctx context.Context, leagueID uuid.UUID) (db.Draft, error)
	UpdateDraftStatus(ctx context.Context, arg db.UpdateDraftStatusParams) (db.Draft, error)
	SetNextDeadline(ctx context.Context, arg db.SetNextDeadlineParams) error
	ListScheduledDrafts(ctx context.Context) ([]db.Draft, error)
	CreateDraftPick(ctx context.Context, arg db.CreateDraftPickParams) error
	GetDraftBoard(ctx context.Context, draftID uuid.UUID) ([]db.DraftBoardRow, error)
	GetNextOpenPick(ctx context.Context, draftID uuid.UUID) (db.DraftPick, error)
	RecordPick(ctx context.Context, arg db.RecordPickParams) (int64, error)
	CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int64, error)
	AddDraftedPlayer(ctx context.Context, arg db.AddDraftedPlayerParams) error
	BestAvailablePlayer(ctx context.Context, leagueID uuid.UUID) (db.AvailablePlayer, error)
}

// Repository implements draft data access operations
type Repository struct {
	queries Querier
	conn    *sql.DB
}

// NewRepository creates a new draft repository. conn opens the transactions
// used to create drafts and record picks; when nil they run on querier.
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

// CreateDraft stores the draft and all of its pick slots
func (r *Repository) CreateDraft(ctx context.Context, params CreateDraftParams) (*models.Draft, error) {
	settings, err := json.Marshal(params.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft settings: %w", err)
	}

	var created db.Draft
	err = r.inTx(ctx, func(q Querier) error {
		var err error
		created, err = q.CreateDraft(ctx, db.CreateDraftParams{
			ID:        params.ID,
			LeagueID:  params.LeagueID,
			DraftType: string(params.DraftType),
			Settings:  settings,
		})
		if err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}

		for _, p := range params.Picks {
			if err := q.CreateDraftPick(ctx, db.CreateDraftPickParams{
				ID:          p.ID,
				DraftID:     created.ID,
				Round:       int32(p.Round),
				Pick:        int32(p.Pick),
				OverallPick: int32(p.OverallPick),
				TeamID:      p.TeamID,
			}); err != nil {
				return fmt.Errorf("failed to create draft pick %d: %w", p.OverallPick, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.dbDraftToModel(created)
}

// GetDraft retrieves a draft by ID
func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := r.queries.GetDraft(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get draft")
	}
	return r.dbDraftToModel(d)
}

// GetActiveDraftForLeague returns the league's latest draft that was not cancelled
func (r *Repository) GetActiveDraftForLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	d, err := r.queries.GetActiveDraftForLeague(ctx, leagueID)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get league draft")
	}
	return r.dbDraftToModel(d)
}

// UpdateDraftStatus sets the status, stamping start and completion times.
// Leaving IN_PROGRESS clears the pick deadline.
func (r *Repository) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) (*models.Draft, error) {
	d, err := r.queries.UpdateDraftStatus(ctx, db.UpdateDraftStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update draft status")
	}
	return r.dbDraftToModel(d)
}

// SetNextDeadline stores when the current pick expires; nil clears it
func (r *Repository) SetNextDeadline(ctx context.Context, id uuid.UUID, deadline *time.Time) error {
	if err := r.queries.SetNextDeadline(ctx, db.SetNextDeadlineParams{
		ID:           id,
		NextDeadline: sqlutil.ToSqlTime(deadline),
	}); err != nil {
		return fmt.Errorf("failed to set next deadline: %w", err)
	}
	return nil
}

// ListScheduledDrafts returns in-progress drafts with a running pick clock
func (r *Repository) ListScheduledDrafts(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.queries.ListScheduledDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled drafts: %w", err)
	}
	drafts := make([]models.Draft, 0, len(rows))
	for _, row := range rows {
		d, err := r.dbDraftToModel(row)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	return drafts, nil
}

// GetBoard returns every pick with the drafted player's name and position
func (r *Repository) GetBoard(ctx context.Context, draftID uuid.UUID) ([]BoardPick, error) {
	rows, err := r.queries.GetDraftBoard(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft board: %w", err)
	}
	picks := make([]BoardPick, len(rows))
	for i, row := range rows {
		picks[i] = BoardPick{
			DraftPick:      *r.dbDraftPickToModel(row.DraftPick),
			PlayerName:     row.PlayerName.String,
			PlayerPosition: models.Position(row.PlayerPosition.String),
		}
	}
	return picks, nil
}

// GetNextOpenPick returns the pick on the clock, or nil when every pick is made
func (r *Repository) GetNextOpenPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	p, err := r.queries.GetNextOpenPick(ctx, draftID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next pick: %w", err)
	}
	return r.dbDraftPickToModel(p), nil
}

// RecordPick assigns the player to the pick and adds them to the team's
// roster in one transaction. It returns how many picks remain.
func (r *Repository) RecordPick(ctx context.Context, params RecordPickParams) (int, error) {
	var remaining int64
	err := r.inTx(ctx, func(q Querier) error {
		n, err := q.RecordPick(ctx, db.RecordPickParams{
			ID:         params.PickID,
			PlayerID:   uuid.NullUUID{UUID: params.PlayerID, Valid: true},
			AutoPicked: params.AutoPicked,
		})
		if _, ok := sqlutil.IsUniqueViolation(err); ok {
			return apperr.New(apperr.ErrConflict, "Player has already been drafted")
		}
		if err != nil {
			return fmt.Errorf("failed to record pick: %w", err)
		}
		if n == 0 {
			return apperr.New(apperr.ErrConflict, "Pick has already been made")
		}

		err = q.AddDraftedPlayer(ctx, db.AddDraftedPlayerParams{
			LeagueID:      params.LeagueID,
			FantasyTeamID: params.TeamID,
			PlayerID:      params.PlayerID,
		})
		if _, ok := sqlutil.IsUniqueViolation(err); ok {
			return apperr.New(apperr.ErrConflict, "Player is already on a roster in this league")
		}
		if err != nil {
			return fmt.Errorf("failed to roster drafted player: %w", err)
		}

		remaining, err = q.CountRemainingPicks(ctx, params.DraftID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(remaining), nil
}

// BestAvailable returns the top ranked active player nobody in the league has rostered
func (r *Repository) BestAvailable(ctx context.Context, leagueID uuid.UUID) (*AvailablePlayer, error) {
	p, err := r.queries.BestAvailablePlayer(ctx, leagueID)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to find best available player")
	}
	return &AvailablePlayer{
		ID:       p.ID,
		FullName: p.FullName,
		Position: models.Position(p.Position),
		Rank:     int(p.Rank),
	}, nil
}

// dbDraftToModel converts a database draft to domain model
func (r *Repository) dbDraftToModel(d db.Draft) (*models.Draft, error) {
	var settings models.DraftSettings
	if len(d.Settings) > 0 {
		if err := json.Unmarshal(d.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft settings: %w", err)
		}
	}
	return &models.Draft{
		ID:           d.ID,
		LeagueID:     d.LeagueID,
		DraftType:    models.DraftType(d.DraftType),
		Status:       models.DraftStatus(d.Status),
		Settings:     settings,
		NextDeadline: sqlutil.FromSqlTime(d.NextDeadline),
		StartedAt:    sqlutil.FromSqlTime(d.StartedAt),
		CompletedAt:  sqlutil.FromSqlTime(d.CompletedAt),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// dbDraftPickToModel converts a database draft pick to domain model
func (r *Repository) dbDraftPickToModel(p db.DraftPick) *models.DraftPick {
	return &models.DraftPick{
		ID:          p.ID,
		DraftID:     p.DraftID,
		Round:       int(p.Round),
		Pick:        int(p.Pick),
		OverallPick: int(p.OverallPick),
		TeamID:      p.TeamID,
		PlayerID:    sqlutil.FromNullUUID(p.PlayerID),
		PickedAt:    sqlutil.FromSqlTime(p.PickedAt),
		AutoPicked:  p.AutoPicked,
	}
}
