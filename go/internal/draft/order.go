package draft

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// GeneratePicks lays out every pick slot for a draft. Snake drafts reverse
// even rounds; with third round reversal, round 3 repeats round 2's order and
// the snake continues from there.
func GeneratePicks(draftID uuid.UUID, draftType models.DraftType, settings models.DraftSettings) []models.DraftPick {
	numTeams := len(settings.DraftOrder)
	picks := make([]models.DraftPick, 0, settings.Rounds*numTeams)

	overall := 1
	for round := 1; round <= settings.Rounds; round++ {
		roundOrder := settings.DraftOrder
		if draftType == models.DraftTypeSnake && isReversed(round, settings.ThirdRoundReversal) {
			roundOrder = reversed(settings.DraftOrder)
		}

		for i, teamID := range roundOrder {
			picks = append(picks, models.DraftPick{
				ID:          uuid.New(),
				DraftID:     draftID,
				Round:       round,
				Pick:        i + 1,
				OverallPick: overall,
				TeamID:      teamID,
			})
			overall++
		}
	}
	return picks
}

func isReversed(round int, thirdRoundReversal bool) bool {
	if thirdRoundReversal && round >= 3 {
		return round%2 == 1
	}
	return round%2 == 0
}

func reversed(order []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(order))
	for i, id := range order {
		out[len(order)-1-i] = id
	}
	return out
}
