package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/dbconfig"
)

// Player mirrors one entry of the players JSON snapshot
type Player struct {
	ExternalID   string `json:"external_id"`
	FullName     string `json:"full_name"`
	Position     string `json:"position"`
	NFLTeam      string `json:"nfl_team"`
	ByeWeek      int    `json:"bye_week"`
	Rank         int    `json:"rank"`
	Active       *bool  `json:"active"`
	InjuryStatus string `json:"injury_status"`
}

// Stats counts the outcome of a seed run
type Stats struct {
	Total    int
	Inserted int
	Updated  int
	Skipped  int
}

const upsertPlayer = `
INSERT INTO players (external_id, full_name, position, nfl_team, bye_week, rank, active, injury_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (external_id) DO UPDATE
SET full_name = EXCLUDED.full_name,
    position = EXCLUDED.position,
    nfl_team = EXCLUDED.nfl_team,
    bye_week = EXCLUDED.bye_week,
    rank = EXCLUDED.rank,
    active = EXCLUDED.active,
    injury_status = EXCLUDED.injury_status
RETURNING (xmax = 0) AS inserted`

var validPositions = map[string]bool{"QB": true, "RB": true, "WR": true, "TE": true, "K": true, "DEF": true}

func main() {
	path := flag.String("file", "go/internal/assets/players.json", "players JSON snapshot")
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "app config file")
	flag.Parse()

	ctx := context.Background()

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *path, err)
		os.Exit(1)
	}
	var players []Player
	if err := json.Unmarshal(data, &players); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal players: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect with the app's database settings
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, dbconfig.DSN(cfg.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert and count
	stats, err := seed(ctx, pool, players)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed players: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"Players seed: total=%d inserted=%d updated=%d skipped=%d\n",
		stats.Total, stats.Inserted, stats.Updated, stats.Skipped,
	)
}

// seed upserts players in a single batch. Entries without an external id,
// a name or a known position are skipped.
func seed(ctx context.Context, pool *pgxpool.Pool, players []Player) (Stats, error) {
	stats := Stats{Total: len(players)}

	batch := &pgx.Batch{}
	for _, p := range players {
		position := strings.ToUpper(strings.TrimSpace(p.Position))
		if p.ExternalID == "" || strings.TrimSpace(p.FullName) == "" || !validPositions[position] {
			stats.Skipped++
			continue
		}
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		injury := strings.ToUpper(p.InjuryStatus)
		if injury == "" {
			injury = "HEALTHY"
		}
		rank := p.Rank
		if rank <= 0 {
			rank = 9999
		}
		batch.Queue(upsertPlayer,
			p.ExternalID, strings.TrimSpace(p.FullName), position, strings.ToUpper(p.NFLTeam),
			p.ByeWeek, rank, active, injury,
		).QueryRow(func(row pgx.Row) error {
			var inserted bool
			if err := row.Scan(&inserted); err != nil {
				return err
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Updated++
			}
			return nil
		})
	}
	if batch.Len() == 0 {
		return stats, nil
	}

	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return stats, fmt.Errorf("upsert batch: %w", err)
	}
	return stats, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
