package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const waiverClaimColumns = `id, league_id, team_id, player_id, drop_player_id, bid_amount, priority, status, failure_reason, process_date, submitted_at, processed_at`

func scanWaiverClaim(row interface{ Scan(...interface{}) error }) (WaiverClaim, error) {
	var i WaiverClaim
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.TeamID,
		&i.PlayerID,
		&i.DropPlayerID,
		&i.BidAmount,
		&i.Priority,
		&i.Status,
		&i.FailureReason,
		&i.ProcessDate,
		&i.SubmittedAt,
		&i.ProcessedAt,
	)
	return i, err
}

func scanWaiverClaims(rows *sql.Rows, err error) ([]WaiverClaim, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WaiverClaim
	for rows.Next() {
		i, err := scanWaiverClaim(rows)
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

const createWaiverClaim = `-- name: CreateWaiverClaim :one
INSERT INTO waiver_claims (league_id, team_id, player_id, drop_player_id, bid_amount, priority, process_date, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + waiverClaimColumns

type CreateWaiverClaimParams struct {
	LeagueID     uuid.UUID
	TeamID       uuid.UUID
	PlayerID     uuid.UUID
	DropPlayerID uuid.NullUUID
	BidAmount    int32
	Priority     int32
	ProcessDate  time.Time
	SubmittedAt  time.Time
}

func (q *Queries) CreateWaiverClaim(ctx context.Context, arg CreateWaiverClaimParams) (WaiverClaim, error) {
	row := q.db.QueryRowContext(ctx, createWaiverClaim,
		arg.LeagueID,
		arg.TeamID,
		arg.PlayerID,
		arg.DropPlayerID,
		arg.BidAmount,
		arg.Priority,
		arg.ProcessDate,
		arg.SubmittedAt,
	)
	return scanWaiverClaim(row)
}

const getWaiverClaim = `-- name: GetWaiverClaim :one
SELECT ` + waiverClaimColumns + ` FROM waiver_claims
WHERE id = $1`

func (q *Queries) GetWaiverClaim(ctx context.Context, id uuid.UUID) (WaiverClaim, error) {
	return scanWaiverClaim(q.db.QueryRowContext(ctx, getWaiverClaim, id))
}

const listLeagueClaims = `-- name: ListLeagueClaims :many
SELECT ` + waiverClaimColumns + ` FROM waiver_claims
WHERE league_id = $1
  AND ($2::uuid IS NULL OR team_id = $2)
  AND ($3::text IS NULL OR status = $3)
ORDER BY submitted_at DESC, id`

type ListLeagueClaimsParams struct {
	LeagueID uuid.UUID
	TeamID   uuid.NullUUID
	Status   sql.NullString
}

func (q *Queries) ListLeagueClaims(ctx context.Context, arg ListLeagueClaimsParams) ([]WaiverClaim, error) {
	return scanWaiverClaims(q.db.QueryContext(ctx, listLeagueClaims, arg.LeagueID, arg.TeamID, arg.Status))
}

const listPendingClaimsForUpdate = `-- name: ListPendingClaimsForUpdate :many
SELECT ` + waiverClaimColumns + ` FROM waiver_claims
WHERE league_id = $1 AND status = 'pending'
ORDER BY submitted_at, id
FOR UPDATE`

func (q *Queries) ListPendingClaimsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]WaiverClaim, error) {
	return scanWaiverClaims(q.db.QueryContext(ctx, listPendingClaimsForUpdate, leagueID))
}

const cancelWaiverClaim = `-- name: CancelWaiverClaim :execrows
UPDATE waiver_claims SET status = 'cancelled', processed_at = $2
WHERE id = $1 AND status = 'pending'`

type CancelWaiverClaimParams struct {
	ID          uuid.UUID
	CancelledAt time.Time
}

func (q *Queries) CancelWaiverClaim(ctx context.Context, arg CancelWaiverClaimParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, cancelWaiverClaim, arg.ID, arg.CancelledAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resolveWaiverClaim = `-- name: ResolveWaiverClaim :exec
UPDATE waiver_claims SET status = $2, failure_reason = $3, processed_at = $4
WHERE id = $1`

type ResolveWaiverClaimParams struct {
	ID            uuid.UUID
	Status        string
	FailureReason string
	ProcessedAt   time.Time
}

func (q *Queries) ResolveWaiverClaim(ctx context.Context, arg ResolveWaiverClaimParams) error {
	_, err := q.db.ExecContext(ctx, resolveWaiverClaim, arg.ID, arg.Status, arg.FailureReason, arg.ProcessedAt)
	return err
}

const listDueLeagues = `-- name: ListDueLeagues :many
SELECT DISTINCT league_id FROM waiver_claims
WHERE status = 'pending' AND process_date <= $1`

func (q *Queries) ListDueLeagues(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listDueLeagues, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
