package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"
)

const tradeColumns = `id, league_id, proposing_team_id, receiving_team_id, offered_players, requested_players, faab_amount, message, status, counter_of_id, assets, expires_at, responded_at, created_at`

func scanTrade(row interface{ Scan(...interface{}) error }) (Trade, error) {
	var i Trade
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.ProposingTeamID,
		&i.ReceivingTeamID,
		pq.Array(&i.OfferedPlayers),
		pq.Array(&i.RequestedPlayers),
		&i.FaabAmount,
		&i.Message,
		&i.Status,
		&i.CounterOfID,
		&i.Assets,
		&i.ExpiresAt,
		&i.RespondedAt,
		&i.CreatedAt,
	)
	return i, err
}

func scanTrades(rows *sql.Rows, err error) ([]Trade, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Trade
	for rows.Next() {
		i, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTrade = `-- name: CreateTrade :one
INSERT INTO trades (league_id, proposing_team_id, receiving_team_id, offered_players, requested_players, faab_amount, message, counter_of_id, assets, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + tradeColumns

type CreateTradeParams struct {
	LeagueID         uuid.UUID
	ProposingTeamID  uuid.UUID
	ReceivingTeamID  uuid.UUID
	OfferedPlayers   []uuid.UUID
	RequestedPlayers []uuid.UUID
	FaabAmount       int32
	Message          string
	CounterOfID      uuid.NullUUID
	Assets           pqtype.NullRawMessage
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

func (q *Queries) CreateTrade(ctx context.Context, arg CreateTradeParams) (Trade, error) {
	row := q.db.QueryRowContext(ctx, createTrade,
		arg.LeagueID,
		arg.ProposingTeamID,
		arg.ReceivingTeamID,
		pq.Array(arg.OfferedPlayers),
		pq.Array(arg.RequestedPlayers),
		arg.FaabAmount,
		arg.Message,
		arg.CounterOfID,
		arg.Assets,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	return scanTrade(row)
}

const getTrade = `-- name: GetTrade :one
SELECT ` + tradeColumns + ` FROM trades
WHERE id = $1`

func (q *Queries) GetTrade(ctx context.Context, id uuid.UUID) (Trade, error) {
	return scanTrade(q.db.QueryRowContext(ctx, getTrade, id))
}

const getTradeForUpdate = `-- name: GetTradeForUpdate :one
SELECT ` + tradeColumns + ` FROM trades
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetTradeForUpdate(ctx context.Context, id uuid.UUID) (Trade, error) {
	return scanTrade(q.db.QueryRowContext(ctx, getTradeForUpdate, id))
}

const listLeagueTrades = `-- name: ListLeagueTrades :many
SELECT ` + tradeColumns + ` FROM trades
WHERE league_id = $1
  AND ($2::uuid IS NULL OR proposing_team_id = $2 OR receiving_team_id = $2)
  AND ($3::text IS NULL OR status = $3)
ORDER BY created_at DESC`

type ListLeagueTradesParams struct {
	LeagueID uuid.UUID
	TeamID   uuid.NullUUID
	Status   sql.NullString
}

func (q *Queries) ListLeagueTrades(ctx context.Context, arg ListLeagueTradesParams) ([]Trade, error) {
	return scanTrades(q.db.QueryContext(ctx, listLeagueTrades, arg.LeagueID, arg.TeamID, arg.Status))
}

const countRecentTrades = `-- name: CountRecentTrades :one
SELECT count(*) FROM trades
WHERE proposing_team_id = $1 AND receiving_team_id = $2
  AND status IN ('pending', 'accepted')
  AND created_at > $3`

type CountRecentTradesParams struct {
	ProposingTeamID uuid.UUID
	ReceivingTeamID uuid.UUID
	Since           time.Time
}

func (q *Queries) CountRecentTrades(ctx context.Context, arg CountRecentTradesParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRecentTrades, arg.ProposingTeamID, arg.ReceivingTeamID, arg.Since)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const setTradeStatus = `-- name: SetTradeStatus :execrows
UPDATE trades SET status = $2, responded_at = $3
WHERE id = $1 AND status = 'pending'`

type SetTradeStatusParams struct {
	ID          uuid.UUID
	Status      string
	RespondedAt time.Time
}

func (q *Queries) SetTradeStatus(ctx context.Context, arg SetTradeStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setTradeStatus, arg.ID, arg.Status, arg.RespondedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const expireTrades = `-- name: ExpireTrades :many
UPDATE trades SET status = 'expired', responded_at = $1
WHERE status = 'pending' AND expires_at <= $1
RETURNING ` + tradeColumns

func (q *Queries) ExpireTrades(ctx context.Context, now time.Time) ([]Trade, error) {
	return scanTrades(q.db.QueryContext(ctx, expireTrades, now))
}
