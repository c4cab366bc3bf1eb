package trades

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/mcdev12/gridiron/go/internal/trades/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateTrade(ctx context.Context, arg db.CreateTradeParams) (db.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (db.Trade, error)
	GetTradeForUpdate(ctx context.Context, id uuid.UUID) (db.Trade, error)
	ListLeagueTrades(ctx context.Context, arg db.ListLeagueTradesParams) ([]db.Trade, error)
	CountRecentTrades(ctx context.Context, arg db.CountRecentTradesParams) (int64, error)
	SetTradeStatus(ctx context.Context, arg db.SetTradeStatusParams) (int64, error)
	ExpireTrades(ctx context.Context, now time.Time) ([]db.Trade, error)
	ListRosterOwners(ctx context.Context, arg db.ListRosterOwnersParams) ([]db.RosterSlot, error)
	LockTeamRosters(ctx context.Context, teamIDs []uuid.UUID) ([]db.RosterSlot, error)
	MoveTradedPlayer(ctx context.Context, arg db.MoveTradedPlayerParams) (int64, error)
	AdjustTeamFaab(ctx context.Context, arg db.AdjustTeamFaabParams) (int64, error)
}

// Repository implements trade data access operations
type Repository struct {
	queries Querier
	conn    *sql.DB
}

// NewRepository creates a new trades repository. Accepting and countering run
// in a transaction on conn; when conn is nil they run on querier.
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

// CreateTrade stores a pending proposal
func (r *Repository) CreateTrade(ctx context.Context, params CreateTradeParams) (*models.Trade, error) {
	return r.createTrade(ctx, r.queries, params)
}

func (r *Repository) createTrade(ctx context.Context, q Querier, params CreateTradeParams) (*models.Trade, error) {
	assets, err := sqlutil.ToNullRawMessage(params.Assets)
	if err != nil {
		return nil, err
	}
	t, err := q.CreateTrade(ctx, db.CreateTradeParams{
		LeagueID:         params.LeagueID,
		ProposingTeamID:  params.ProposingTeamID,
		ReceivingTeamID:  params.ReceivingTeamID,
		OfferedPlayers:   nonNil(params.OfferedPlayers),
		RequestedPlayers: nonNil(params.RequestedPlayers),
		FaabAmount:       int32(params.FAABAmount),
		Message:          params.Message,
		CounterOfID:      sqlutil.ToNullUUID(params.CounterOfID),
		Assets:           assets,
		ExpiresAt:        params.ExpiresAt,
		CreatedAt:        params.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return r.dbTradeToModel(t)
}

// GetTrade retrieves a trade by ID
func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	t, err := r.queries.GetTrade(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get trade")
	}
	return r.dbTradeToModel(t)
}

// ListTrades returns a league's trades, newest first. teamID matches either
// side; a nil status lists every status.
func (r *Repository) ListTrades(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.TradeStatus) ([]models.Trade, error) {
	params := db.ListLeagueTradesParams{
		LeagueID: leagueID,
		TeamID:   sqlutil.ToNullUUID(teamID),
	}
	if status != nil {
		params.Status = sql.NullString{String: string(*status), Valid: true}
	}
	rows, err := r.queries.ListLeagueTrades(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return r.dbTradesToModels(rows)
}

// HasRecentTrade reports whether proposing already has a pending or accepted
// proposal to receiving created after since
func (r *Repository) HasRecentTrade(ctx context.Context, proposingTeamID, receivingTeamID uuid.UUID, since time.Time) (bool, error) {
	n, err := r.queries.CountRecentTrades(ctx, db.CountRecentTradesParams{
		ProposingTeamID: proposingTeamID,
		ReceivingTeamID: receivingTeamID,
		Since:           since,
	})
	if err != nil {
		return false, fmt.Errorf("failed to count recent trades: %w", err)
	}
	return n > 0, nil
}

// RosterOwners maps each rostered player in playerIDs to its team
func (r *Repository) RosterOwners(ctx context.Context, leagueID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	slots, err := r.queries.ListRosterOwners(ctx, db.ListRosterOwnersParams{LeagueID: leagueID, PlayerIDs: playerIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list roster owners: %w", err)
	}
	for _, s := range slots {
		out[s.PlayerID] = s.FantasyTeamID
	}
	return out, nil
}

// SetStatus moves a pending trade to status. A trade that is no longer
// pending is a conflict.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus, at time.Time) error {
	return r.setStatus(ctx, r.queries, id, status, at)
}

func (r *Repository) setStatus(ctx context.Context, q Querier, id uuid.UUID, status models.TradeStatus, at time.Time) error {
	n, err := q.SetTradeStatus(ctx, db.SetTradeStatusParams{ID: id, Status: string(status), RespondedAt: at})
	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrConflict, "Trade is no longer pending")
	}
	return nil
}

// ExecuteTrade swaps the traded players and FAAB between the two teams and
// marks the trade accepted. Ownership and roster size are checked again under
// lock.
func (r *Repository) ExecuteTrade(ctx context.Context, tradeID uuid.UUID, rosterSize int, at time.Time) (*models.Trade, error) {
	var trade *models.Trade
	err := r.inTx(ctx, func(q Querier) error {
		row, err := q.GetTradeForUpdate(ctx, tradeID)
		if err != nil {
			return sqlutil.MapError(err, "failed to lock trade")
		}
		if trade, err = r.dbTradeToModel(row); err != nil {
			return err
		}
		if trade.Status != models.TradeStatusPending {
			return apperr.New(apperr.ErrConflict, "Trade is no longer pending")
		}

		slots, err := q.LockTeamRosters(ctx, []uuid.UUID{trade.ProposingTeamID, trade.ReceivingTeamID})
		if err != nil {
			return fmt.Errorf("failed to lock rosters: %w", err)
		}
		if err := checkSwap(trade, slots, rosterSize); err != nil {
			return err
		}

		for _, p := range trade.OfferedPlayers {
			if err := r.move(ctx, q, p, trade.ProposingTeamID, trade.ReceivingTeamID, at); err != nil {
				return err
			}
		}
		for _, p := range trade.RequestedPlayers {
			if err := r.move(ctx, q, p, trade.ReceivingTeamID, trade.ProposingTeamID, at); err != nil {
				return err
			}
		}

		if trade.FAABAmount > 0 {
			n, err := q.AdjustTeamFaab(ctx, db.AdjustTeamFaabParams{ID: trade.ProposingTeamID, Delta: -int32(trade.FAABAmount)})
			if err != nil {
				return fmt.Errorf("failed to debit FAAB: %w", err)
			}
			if n == 0 {
				return apperr.New(apperr.ErrInvalid, "Proposing team no longer has enough FAAB budget")
			}
			if _, err := q.AdjustTeamFaab(ctx, db.AdjustTeamFaabParams{ID: trade.ReceivingTeamID, Delta: int32(trade.FAABAmount)}); err != nil {
				return fmt.Errorf("failed to credit FAAB: %w", err)
			}
		}

		if err := r.setStatus(ctx, q, trade.ID, models.TradeStatusAccepted, at); err != nil {
			return err
		}
		trade.Status = models.TradeStatusAccepted
		trade.RespondedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (r *Repository) move(ctx context.Context, q Querier, playerID, from, to uuid.UUID, at time.Time) error {
	n, err := q.MoveTradedPlayer(ctx, db.MoveTradedPlayerParams{PlayerID: playerID, FromTeamID: from, ToTeamID: to, AcquiredAt: at})
	if err != nil {
		return fmt.Errorf("failed to move player %s: %w", playerID, err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrConflict, "Trade is no longer valid: a player has left the roster")
	}
	return nil
}

// checkSwap verifies every traded player is still on the expected team and
// that neither team ends up over the roster size. IR players do not count.
func checkSwap(t *models.Trade, slots []db.RosterSlot, rosterSize int) error {
	owner := make(map[uuid.UUID]db.RosterSlot, len(slots))
	active := make(map[uuid.UUID]int, 2)
	for _, s := range slots {
		owner[s.PlayerID] = s
		if s.Position != string(models.RosterPositionIR) {
			active[s.FantasyTeamID]++
		}
	}

	leaving := func(players []uuid.UUID, team uuid.UUID) (int, error) {
		n := 0
		for _, p := range players {
			s, ok := owner[p]
			if !ok || s.FantasyTeamID != team {
				return 0, apperr.New(apperr.ErrConflict, "Trade is no longer valid: a player has left the roster")
			}
			if s.Position != string(models.RosterPositionIR) {
				n++
			}
		}
		return n, nil
	}
	offeredActive, err := leaving(t.OfferedPlayers, t.ProposingTeamID)
	if err != nil {
		return err
	}
	requestedActive, err := leaving(t.RequestedPlayers, t.ReceivingTeamID)
	if err != nil {
		return err
	}

	if rosterSize <= 0 {
		return nil
	}
	if active[t.ProposingTeamID]-offeredActive+len(t.RequestedPlayers) > rosterSize {
		return apperr.New(apperr.ErrInvalid, "Trade would put the proposing team over the roster limit")
	}
	if active[t.ReceivingTeamID]-requestedActive+len(t.OfferedPlayers) > rosterSize {
		return apperr.New(apperr.ErrInvalid, "Trade would put the receiving team over the roster limit")
	}
	return nil
}

// CounterTrade marks the original trade countered and stores the counter
// proposal in the same transaction
func (r *Repository) CounterTrade(ctx context.Context, originalID uuid.UUID, params CreateTradeParams) (*models.Trade, error) {
	var counter *models.Trade
	err := r.inTx(ctx, func(q Querier) error {
		if err := r.setStatus(ctx, q, originalID, models.TradeStatusCountered, params.CreatedAt); err != nil {
			return err
		}
		params.CounterOfID = &originalID
		var err error
		counter, err = r.createTrade(ctx, q, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return counter, nil
}

// ExpireTrades expires every pending trade whose window closed at or before now
func (r *Repository) ExpireTrades(ctx context.Context, now time.Time) ([]models.Trade, error) {
	rows, err := r.queries.ExpireTrades(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire trades: %w", err)
	}
	return r.dbTradesToModels(rows)
}

func (r *Repository) dbTradesToModels(rows []db.Trade) ([]models.Trade, error) {
	out := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		t, err := r.dbTradeToModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// dbTradeToModel converts a database trade to domain model
func (r *Repository) dbTradeToModel(t db.Trade) (*models.Trade, error) {
	trade := &models.Trade{
		ID:               t.ID,
		LeagueID:         t.LeagueID,
		ProposingTeamID:  t.ProposingTeamID,
		ReceivingTeamID:  t.ReceivingTeamID,
		OfferedPlayers:   nonNil(t.OfferedPlayers),
		RequestedPlayers: nonNil(t.RequestedPlayers),
		FAABAmount:       int(t.FaabAmount),
		Message:          t.Message,
		Status:           models.TradeStatus(t.Status),
		CounterOfID:      sqlutil.FromNullUUID(t.CounterOfID),
		ExpiresAt:        t.ExpiresAt,
		RespondedAt:      sqlutil.FromSqlTime(t.RespondedAt),
		CreatedAt:        t.CreatedAt,
	}
	if err := sqlutil.FromNullRawMessage(t.Assets, &trade.Assets); err != nil {
		return nil, err
	}
	if trade.Assets == nil {
		trade.Assets = []models.TradeAsset{}
	}
	return trade, nil
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
