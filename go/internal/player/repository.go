package player

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/player/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	UpsertPlayer(ctx context.Context, arg db.UpsertPlayerParams) (db.UpsertPlayerRow, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (db.Player, error)
	GetPlayerByExternalID(ctx context.Context, externalID string) (db.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Player, error)
	SearchPlayers(ctx context.Context, arg db.SearchPlayersParams) ([]db.Player, error)
	ListAvailablePlayers(ctx context.Context, arg db.ListAvailablePlayersParams) ([]db.Player, error)
	SetInjuryStatus(ctx context.Context, id uuid.UUID, status string) (db.Player, error)
}

// Repository implements player data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new player repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// UpsertPlayer creates the player or refreshes it by external ID. The bool
// reports whether a new row was inserted.
func (r *Repository) UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, bool, error) {
	row, err := r.queries.UpsertPlayer(ctx, db.UpsertPlayerParams{
		ExternalID:   req.ExternalID,
		FullName:     req.FullName,
		Position:     string(req.Position),
		NflTeam:      req.NFLTeam,
		ByeWeek:      int32(req.ByeWeek),
		Rank:         int32(req.Rank),
		Active:       req.Active,
		InjuryStatus: string(req.InjuryStatus),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert player: %w", err)
	}
	return r.dbPlayerToModel(row.Player), row.Inserted, nil
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := r.queries.GetPlayer(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get player")
	}
	return r.dbPlayerToModel(p), nil
}

// GetPlayerByExternalID retrieves a player by the provider's ID
func (r *Repository) GetPlayerByExternalID(ctx context.Context, externalID string) (*models.Player, error) {
	p, err := r.queries.GetPlayerByExternalID(ctx, externalID)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get player by external ID")
	}
	return r.dbPlayerToModel(p), nil
}

// GetPlayersByIDs retrieves players by ID in no particular order
func (r *Repository) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	rows, err := r.queries.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get players by ids: %w", err)
	}
	return r.toModels(rows), nil
}

// SearchPlayers filters active players by name prefix, position and NFL team
func (r *Repository) SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	rows, err := r.queries.SearchPlayers(ctx, db.SearchPlayersParams{
		Name:     nullString(req.Name),
		Position: nullString(string(req.Position)),
		NflTeam:  nullString(req.NFLTeam),
		Limit:    int32(req.Limit),
		Offset:   int32(req.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return r.toModels(rows), nil
}

// ListAvailablePlayers returns active players not rostered in the league
func (r *Repository) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error) {
	rows, err := r.queries.ListAvailablePlayers(ctx, db.ListAvailablePlayersParams{
		LeagueID: leagueID,
		Position: nullString(string(position)),
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	return r.toModels(rows), nil
}

// SetInjuryStatus updates a player's injury designation
func (r *Repository) SetInjuryStatus(ctx context.Context, id uuid.UUID, status models.InjuryStatus) (*models.Player, error) {
	p, err := r.queries.SetInjuryStatus(ctx, id, string(status))
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to set injury status")
	}
	return r.dbPlayerToModel(p), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *Repository) toModels(rows []db.Player) []models.Player {
	players := make([]models.Player, len(rows))
	for i, row := range rows {
		players[i] = *r.dbPlayerToModel(row)
	}
	return players
}

// dbPlayerToModel converts a database player to domain model
func (r *Repository) dbPlayerToModel(p db.Player) *models.Player {
	return &models.Player{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		FullName:     p.FullName,
		Position:     models.Position(p.Position),
		NFLTeam:      p.NflTeam,
		ByeWeek:      int(p.ByeWeek),
		Rank:         int(p.Rank),
		Active:       p.Active,
		InjuryStatus: models.InjuryStatus(p.InjuryStatus),
		CreatedAt:    p.CreatedAt,
	}
}
