package scorefeed

import (
	"context"
	"encoding/json"
	"fmt"
)

// FeedPlayer is a player as the provider describes it
type FeedPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	ByeWeek      int    `json:"bye_week"`
	Rank         int    `json:"rank"`
	Status       string `json:"status"`
	InjuryStatus string `json:"injury_status"`
}

type playersResponse struct {
	Players []FeedPlayer `json:"players"`
}

// Players fetches every player the provider tracks
func (c *Client) Players(ctx context.Context) ([]FeedPlayer, error) {
	body, err := c.Get(ctx, playersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	var resp playersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players response: %w", err)
	}
	return resp.Players, nil
}
