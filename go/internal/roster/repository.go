package roster

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/roster/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateRosterEntry(ctx context.Context, arg db.CreateRosterEntryParams) (db.Roster, error)
	GetLeagueRosterEntry(ctx context.Context, arg db.GetLeagueRosterEntryParams) (db.Roster, error)
	GetTeamRoster(ctx context.Context, fantasyTeamID uuid.UUID) ([]db.RosterPlayerRow, error)
	GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]db.Roster, error)
	CountRosterByPosition(ctx context.Context, fantasyTeamID uuid.UUID) (db.CountRosterByPositionRow, error)
	UpdateRosterPosition(ctx context.Context, arg db.UpdateRosterPositionParams) (db.Roster, error)
	DeleteRosterEntry(ctx context.Context, arg db.DeleteRosterEntryParams) (int64, error)
}

// Repository implements roster data access operations
type Repository struct {
	queries Querier
	conn    *sql.DB
}

// NewRepository creates a new roster repository. conn is used to open
// transactions for multi-statement changes; when nil those run on querier.
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

// GetTeamRoster returns the team's roster with player details
func (r *Repository) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error) {
	rows, err := r.queries.GetTeamRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team roster: %w", err)
	}

	out := make([]models.RosterPlayer, len(rows))
	for i, row := range rows {
		out[i] = models.RosterPlayer{
			Roster: *r.dbRosterToModel(row.Roster),
			Player: models.Player{
				ID:           row.PlayerID,
				FullName:     row.FullName,
				Position:     models.Position(row.PlayerPos),
				NFLTeam:      row.NflTeam,
				ByeWeek:      int(row.ByeWeek),
				Rank:         int(row.Rank),
				Active:       row.Active,
				InjuryStatus: models.InjuryStatus(row.InjuryStatus),
			},
		}
	}
	return out, nil
}

// GetLeagueRoster returns every roster entry in a league
func (r *Repository) GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]models.Roster, error) {
	rows, err := r.queries.GetLeagueRoster(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league roster: %w", err)
	}
	out := make([]models.Roster, len(rows))
	for i, row := range rows {
		out[i] = *r.dbRosterToModel(row)
	}
	return out, nil
}

// GetRosterEntry returns the roster entry holding the player in the league
func (r *Repository) GetRosterEntry(ctx context.Context, leagueID, playerID uuid.UUID) (*models.Roster, error) {
	row, err := r.queries.GetLeagueRosterEntry(ctx, db.GetLeagueRosterEntryParams{
		LeagueID: leagueID,
		PlayerID: playerID,
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get roster entry")
	}
	return r.dbRosterToModel(row), nil
}

// CountByPosition counts the team's roster slots
func (r *Repository) CountByPosition(ctx context.Context, teamID uuid.UUID) (*RosterCounts, error) {
	row, err := r.queries.CountRosterByPosition(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count roster: %w", err)
	}
	return &RosterCounts{
		Active:   int(row.Active),
		Starters: int(row.Starters),
		IR:       int(row.Ir),
	}, nil
}

// AddPlayer inserts a roster entry, dropping another player from the same
// team first when requested. Both happen in one transaction.
func (r *Repository) AddPlayer(ctx context.Context, params AddPlayerParams) (*models.Roster, error) {
	var entry db.Roster
	err := r.inTx(ctx, func(q Querier) error {
		if params.DropPlayerID != nil {
			n, err := q.DeleteRosterEntry(ctx, db.DeleteRosterEntryParams{
				FantasyTeamID: params.TeamID,
				PlayerID:      *params.DropPlayerID,
			})
			if err != nil {
				return fmt.Errorf("failed to drop player: %w", err)
			}
			if n == 0 {
				return apperr.New(apperr.ErrNotFound, "Drop player is not on this roster")
			}
		}

		var err error
		entry, err = q.CreateRosterEntry(ctx, db.CreateRosterEntryParams{
			LeagueID:        params.LeagueID,
			FantasyTeamID:   params.TeamID,
			PlayerID:        params.PlayerID,
			Position:        string(params.Position),
			AcquisitionType: string(params.AcquisitionType),
			AcquisitionCost: int32(params.AcquisitionCost),
		})
		if _, ok := sqlutil.IsUniqueViolation(err); ok {
			return apperr.New(apperr.ErrConflict, "Player is already on a roster in this league")
		}
		if err != nil {
			return fmt.Errorf("failed to create roster entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.dbRosterToModel(entry), nil
}

// RemovePlayer deletes the player from the team's roster
func (r *Repository) RemovePlayer(ctx context.Context, teamID, playerID uuid.UUID) error {
	n, err := r.queries.DeleteRosterEntry(ctx, db.DeleteRosterEntryParams{
		FantasyTeamID: teamID,
		PlayerID:      playerID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrNotFound, "Player is not on this roster")
	}
	return nil
}

// SetPosition moves a rostered player to another slot
func (r *Repository) SetPosition(ctx context.Context, teamID, playerID uuid.UUID, position models.RosterPosition) (*models.Roster, error) {
	row, err := r.queries.UpdateRosterPosition(ctx, db.UpdateRosterPositionParams{
		FantasyTeamID: teamID,
		PlayerID:      playerID,
		Position:      string(position),
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update roster position")
	}
	return r.dbRosterToModel(row), nil
}

// dbRosterToModel converts a database roster row to domain model
func (r *Repository) dbRosterToModel(row db.Roster) *models.Roster {
	return &models.Roster{
		ID:              row.ID,
		LeagueID:        row.LeagueID,
		FantasyTeamID:   row.FantasyTeamID,
		PlayerID:        row.PlayerID,
		Position:        models.RosterPosition(row.Position),
		AcquiredAt:      row.AcquiredAt,
		AcquisitionType: models.AcquisitionType(row.AcquisitionType),
		AcquisitionCost: int(row.AcquisitionCost),
	}
}
