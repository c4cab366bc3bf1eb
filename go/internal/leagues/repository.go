package leagues

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/leagues/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateLeague(ctx context.Context, arg db.CreateLeagueParams) (db.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (db.League, error)
	GetLeaguesForUser(ctx context.Context, userID uuid.UUID) ([]db.League, error)
	GetLeaguesByStatus(ctx context.Context, status string) ([]db.League, error)
	IsLeagueMember(ctx context.Context, arg db.IsLeagueMemberParams) (bool, error)
	UpdateLeagueName(ctx context.Context, id uuid.UUID, name string) (db.League, error)
	UpdateLeagueSettings(ctx context.Context, arg db.UpdateLeagueSettingsParams) (db.League, error)
	UpdateLeagueStatus(ctx context.Context, arg db.UpdateLeagueStatusParams) (db.League, error)
	SetCurrentWeek(ctx context.Context, id uuid.UUID, week int32) (db.League, error)
	DeleteLeague(ctx context.Context, id uuid.UUID) error
}

// Repository implements league data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new leagues repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateLeague creates a new league
func (r *Repository) CreateLeague(ctx context.Context, req CreateLeagueParams) (*models.League, error) {
	settings, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal league settings: %w", err)
	}

	league, err := r.queries.CreateLeague(ctx, db.CreateLeagueParams{
		Name:           req.Name,
		LeagueType:     string(req.LeagueType),
		CommissionerID: req.CommissionerID,
		LeagueSettings: settings,
		Status:         string(models.LeagueStatusPending),
		Season:         int32(req.Season),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	return r.dbLeagueToModel(league)
}

// GetLeague retrieves a league by ID
func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := r.queries.GetLeague(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get league")
	}

	return r.dbLeagueToModel(league)
}

// GetLeaguesForUser retrieves leagues the user runs or has a team in
func (r *Repository) GetLeaguesForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error) {
	rows, err := r.queries.GetLeaguesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leagues for user: %w", err)
	}
	return r.toModels(rows)
}

// GetLeaguesByStatus retrieves every league in a status
func (r *Repository) GetLeaguesByStatus(ctx context.Context, status models.LeagueStatus) ([]models.League, error) {
	rows, err := r.queries.GetLeaguesByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to get leagues by status: %w", err)
	}
	return r.toModels(rows)
}

// IsMember reports whether the user is the commissioner or owns a team in the league
func (r *Repository) IsMember(ctx context.Context, leagueID, userID uuid.UUID) (bool, error) {
	ok, err := r.queries.IsLeagueMember(ctx, db.IsLeagueMemberParams{LeagueID: leagueID, UserID: userID})
	if err != nil {
		return false, fmt.Errorf("failed to check league membership: %w", err)
	}
	return ok, nil
}

// UpdateLeagueName renames a league
func (r *Repository) UpdateLeagueName(ctx context.Context, id uuid.UUID, name string) (*models.League, error) {
	league, err := r.queries.UpdateLeagueName(ctx, id, name)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to rename league")
	}
	return r.dbLeagueToModel(league)
}

// UpdateLeagueSettings replaces a league's settings
func (r *Repository) UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal league settings: %w", err)
	}

	league, err := r.queries.UpdateLeagueSettings(ctx, db.UpdateLeagueSettingsParams{
		ID:             id,
		LeagueSettings: raw,
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update league settings")
	}
	return r.dbLeagueToModel(league)
}

// UpdateLeagueStatus updates only the status of a league
func (r *Repository) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) (*models.League, error) {
	league, err := r.queries.UpdateLeagueStatus(ctx, db.UpdateLeagueStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update league status")
	}
	return r.dbLeagueToModel(league)
}

// SetCurrentWeek moves the league to a new scoring week
func (r *Repository) SetCurrentWeek(ctx context.Context, id uuid.UUID, week int) (*models.League, error) {
	league, err := r.queries.SetCurrentWeek(ctx, id, int32(week))
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to set current week")
	}
	return r.dbLeagueToModel(league)
}

// DeleteLeague deletes a league by ID
func (r *Repository) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.DeleteLeague(ctx, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	return nil
}

func (r *Repository) toModels(rows []db.League) ([]models.League, error) {
	leagues := make([]models.League, 0, len(rows))
	for _, row := range rows {
		l, err := r.dbLeagueToModel(row)
		if err != nil {
			return nil, err
		}
		leagues = append(leagues, *l)
	}
	return leagues, nil
}

// dbLeagueToModel converts a database league to domain model. Settings
// missing from the stored JSON fall back to the defaults.
func (r *Repository) dbLeagueToModel(l db.League) (*models.League, error) {
	settings := models.DefaultLeagueSettings()
	if len(l.LeagueSettings) > 0 {
		if err := json.Unmarshal(l.LeagueSettings, &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal league settings: %w", err)
		}
	}

	return &models.League{
		ID:             l.ID,
		Name:           l.Name,
		LeagueType:     models.LeagueType(l.LeagueType),
		CommissionerID: l.CommissionerID,
		Settings:       settings,
		Status:         models.LeagueStatus(l.Status),
		Season:         int(l.Season),
		CurrentWeek:    int(l.CurrentWeek),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}, nil
}
