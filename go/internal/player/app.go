package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/clients/scorefeed"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, bool, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayerByExternalID(ctx context.Context, externalID string) (*models.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error)
	SetInjuryStatus(ctx context.Context, id uuid.UUID, status models.InjuryStatus) (*models.Player, error)
}

// PlayerSource lists players from the stats provider
type PlayerSource interface {
	Players(ctx context.Context) ([]scorefeed.FeedPlayer, error)
}

// App handles player business logic
type App struct {
	repo   PlayerRepository
	source PlayerSource
}

// NewApp creates a new player App. source may be nil when no provider is configured.
func NewApp(repo PlayerRepository, source PlayerSource) *App {
	return &App{
		repo:   repo,
		source: source,
	}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return a.repo.GetPlayer(ctx, id)
}

// GetPlayersByIDs retrieves players keyed by ID
func (a *App) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error) {
	players, err := a.repo.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID, nil
}

// Search filters active players. Limit defaults to 25 and is capped at 100.
func (a *App) Search(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	if req.Limit > maxSearchLimit {
		req.Limit = maxSearchLimit
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}
	req.Name = strings.TrimSpace(req.Name)
	req.NFLTeam = strings.ToUpper(req.NFLTeam)

	return a.repo.SearchPlayers(ctx, req)
}

// ListAvailable returns the best ranked players nobody in the league has rostered
func (a *App) ListAvailable(ctx context.Context, leagueID uuid.UUID, position models.Position, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return a.repo.ListAvailablePlayers(ctx, leagueID, position, limit)
}

// SyncFromFeed upserts every player the stats provider reports
func (a *App) SyncFromFeed(ctx context.Context) (*SyncResult, error) {
	if a.source == nil {
		return nil, fmt.Errorf("no player source configured")
	}

	players, err := a.source.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players from feed: %w", err)
	}

	result := &SyncResult{TotalProcessed: len(players)}
	for _, fp := range players {
		req, ok := mapFeedPlayer(fp)
		if !ok {
			result.Skipped++
			continue
		}

		_, created, err := a.repo.UpsertPlayer(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to upsert player %s: %v", fp.Name, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	log.Info().
		Int("total", result.TotalProcessed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("synced players from feed")
	return result, nil
}

// mapFeedPlayer converts a provider player. Players at positions the game
// does not use are skipped.
func mapFeedPlayer(fp scorefeed.FeedPlayer) (UpsertPlayerRequest, bool) {
	pos := models.Position(strings.ToUpper(fp.Position))
	switch pos {
	case "PK":
		pos = models.PositionK
	case "DST", "D/ST":
		pos = models.PositionDEF
	}
	valid := false
	for _, p := range models.ValidPositions {
		if p == pos {
			valid = true
			break
		}
	}
	if !valid || fp.ID == "" || fp.Name == "" {
		return UpsertPlayerRequest{}, false
	}

	injury := models.InjuryStatus(strings.ToUpper(fp.InjuryStatus))
	switch injury {
	case models.InjuryQuestionable, models.InjuryDoubtful, models.InjuryOut, models.InjuryIR:
	default:
		injury = models.InjuryHealthy
	}

	rank := fp.Rank
	if rank <= 0 {
		rank = 9999
	}

	return UpsertPlayerRequest{
		ExternalID:   fp.ID,
		FullName:     fp.Name,
		Position:     pos,
		NFLTeam:      strings.ToUpper(fp.Team),
		ByeWeek:      fp.ByeWeek,
		Rank:         rank,
		Active:       !strings.EqualFold(fp.Status, "inactive") && !strings.EqualFold(fp.Status, "retired"),
		InjuryStatus: injury,
	}, true
}
