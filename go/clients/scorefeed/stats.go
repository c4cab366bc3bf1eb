package scorefeed

import (
	"context"
	"encoding/json"
	"fmt"
)

// FeedStatLine is one player's box score line for a week
type FeedStatLine struct {
	PlayerID       string `json:"player_id"`
	PassingYards   int    `json:"passing_yards"`
	PassingTDs     int    `json:"passing_tds"`
	Interceptions  int    `json:"interceptions"`
	RushingYards   int    `json:"rushing_yards"`
	RushingTDs     int    `json:"rushing_tds"`
	Receptions     int    `json:"receptions"`
	ReceivingYards int    `json:"receiving_yards"`
	ReceivingTDs   int    `json:"receiving_tds"`
	FumblesLost    int    `json:"fumbles_lost"`
	FieldGoals     int    `json:"field_goals"`
	ExtraPoints    int    `json:"extra_points"`
}

type statsResponse struct {
	Season int            `json:"season"`
	Week   int            `json:"week"`
	Stats  []FeedStatLine `json:"stats"`
}

// WeeklyStats fetches stat lines for every player who appeared in a week
func (c *Client) WeeklyStats(ctx context.Context, season, week int) ([]FeedStatLine, error) {
	body, err := c.Get(ctx, fmt.Sprintf(statsPath, season, week))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats for %d week %d: %w", season, week, err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats response: %w", err)
	}
	return resp.Stats, nil
}
