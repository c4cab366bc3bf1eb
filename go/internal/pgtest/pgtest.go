//go:build integration

// Package pgtest starts a throwaway Postgres with the application schema and
// inserts the rows repository tests build on.
package pgtest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func schemaPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "schema", "schema.sql")
}

// Start runs Postgres 16 with the schema loaded and returns a connection
// closed when the test ends.
func Start(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16.3-alpine",
		postgres.WithDatabase("gridiron"),
		postgres.WithUsername("gridiron"),
		postgres.WithPassword("secret"),
		postgres.WithInitScripts(schemaPath()),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.PingContext(ctx))
	return conn
}

func insert(t *testing.T, conn *sql.DB, query string, args ...any) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, conn.QueryRowContext(context.Background(), query, args...).Scan(&id))
	return id
}

// User inserts a player-role user
func User(t *testing.T, conn *sql.DB, username string) uuid.UUID {
	return insert(t, conn,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com")
}

// League inserts an active league run by commissioner
func League(t *testing.T, conn *sql.DB, commissioner uuid.UUID) uuid.UUID {
	return insert(t, conn,
		`INSERT INTO leagues (name, commissioner_id, status, season) VALUES ('Test League', $1, 'ACTIVE', 2026) RETURNING id`,
		commissioner)
}

// Team inserts a fantasy team with the given waiver priority and FAAB budget
func Team(t *testing.T, conn *sql.DB, leagueID, ownerID uuid.UUID, priority, faab int) uuid.UUID {
	return insert(t, conn,
		`INSERT INTO fantasy_teams (league_id, owner_id, name, waiver_priority, faab_remaining)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		leagueID, ownerID, fmt.Sprintf("Team %d", priority), priority, faab)
}

// Player inserts an active player
func Player(t *testing.T, conn *sql.DB, name, position string) uuid.UUID {
	return insert(t, conn,
		`INSERT INTO players (external_id, full_name, position) VALUES ($1, $2, $3) RETURNING id`,
		uuid.NewString(), name, position)
}

// Roster puts a player on a team's bench
func Roster(t *testing.T, conn *sql.DB, leagueID, teamID, playerID uuid.UUID) {
	insert(t, conn,
		`INSERT INTO roster (league_id, fantasy_team_id, player_id, acquisition_type) VALUES ($1, $2, $3, 'DRAFT') RETURNING id`,
		leagueID, teamID, playerID)
}

// RosterOwner returns the team holding the player, or uuid.Nil when unrostered
func RosterOwner(t *testing.T, conn *sql.DB, playerID uuid.UUID) uuid.UUID {
	t.Helper()
	var team uuid.UUID
	err := conn.QueryRowContext(context.Background(),
		`SELECT fantasy_team_id FROM roster WHERE player_id = $1`, playerID).Scan(&team)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil
	}
	require.NoError(t, err)
	return team
}

// FAAB returns a team's remaining budget
func FAAB(t *testing.T, conn *sql.DB, teamID uuid.UUID) int {
	t.Helper()
	var faab int
	require.NoError(t, conn.QueryRowContext(context.Background(),
		`SELECT faab_remaining FROM fantasy_teams WHERE id = $1`, teamID).Scan(&faab))
	return faab
}
