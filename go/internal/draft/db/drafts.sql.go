package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

const draftColumns = `id, league_id, draft_type, status, settings, next_deadline, started_at, completed_at, created_at, updated_at`

func scanDraft(row interface{ Scan(...interface{}) error }) (Draft, error) {
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.DraftType,
		&i.Status,
		&i.Settings,
		&i.NextDeadline,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createDraft = `-- name: CreateDraft :one
INSERT INTO drafts (id, league_id, draft_type, settings)
VALUES ($1, $2, $3, $4)
RETURNING ` + draftColumns

type CreateDraftParams struct {
	ID        uuid.UUID
	LeagueID  uuid.UUID
	DraftType string
	Settings  json.RawMessage
}

func (q *Queries) CreateDraft(ctx context.Context, arg CreateDraftParams) (Draft, error) {
	row := q.db.QueryRowContext(ctx, createDraft,
		arg.ID,
		arg.LeagueID,
		arg.DraftType,
		arg.Settings,
	)
	return scanDraft(row)
}

const getDraft = `-- name: GetDraft :one
SELECT ` + draftColumns + ` FROM drafts
WHERE id = $1`

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getDraft, id))
}

const getActiveDraftForLeague = `-- name: GetActiveDraftForLeague :one
SELECT ` + draftColumns + ` FROM drafts
WHERE league_id = $1 AND status <> 'CANCELLED'
ORDER BY created_at DESC
LIMIT 1`

func (q *Queries) GetActiveDraftForLeague(ctx context.Context, leagueID uuid.UUID) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getActiveDraftForLeague, leagueID))
}

const updateDraftStatus = `-- name: UpdateDraftStatus :one
UPDATE drafts
SET status = $2,
    started_at = CASE WHEN $2 = 'IN_PROGRESS' THEN COALESCE(started_at, now()) ELSE started_at END,
    completed_at = CASE WHEN $2 = 'COMPLETED' THEN now() ELSE completed_at END,
    next_deadline = CASE WHEN $2 = 'IN_PROGRESS' THEN next_deadline ELSE NULL END,
    updated_at = now()
WHERE id = $1
RETURNING ` + draftColumns

type UpdateDraftStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateDraftStatus(ctx context.Context, arg UpdateDraftStatusParams) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, updateDraftStatus, arg.ID, arg.Status))
}

const setNextDeadline = `-- name: SetNextDeadline :exec
UPDATE drafts
SET next_deadline = $2, updated_at = now()
WHERE id = $1`

type SetNextDeadlineParams struct {
	ID           uuid.UUID
	NextDeadline sql.NullTime
}

func (q *Queries) SetNextDeadline(ctx context.Context, arg SetNextDeadlineParams) error {
	_, err := q.db.ExecContext(ctx, setNextDeadline, arg.ID, arg.NextDeadline)
	return err
}

const listScheduledDrafts = `-- name: ListScheduledDrafts :many
SELECT ` + draftColumns + ` FROM drafts
WHERE status = 'IN_PROGRESS' AND next_deadline IS NOT NULL
ORDER BY next_deadline`

func (q *Queries) ListScheduledDrafts(ctx context.Context) ([]Draft, error) {
	rows, err := q.db.QueryContext(ctx, listScheduledDrafts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Draft
	for rows.Next() {
		i, err := scanDraft(rows)
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
