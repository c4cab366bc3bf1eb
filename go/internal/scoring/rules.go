package scoring

import (
	"math"

	"github.com/mcdev12/gridiron/go/internal/models"
)

// Rules is the points table applied to a stat line
type Rules struct {
	PassingYard     float64 `json:"passing_yard"`
	PassingTD       float64 `json:"passing_td"`
	Interception    float64 `json:"interception"`
	Passing300Bonus float64 `json:"passing_300_bonus"`
	RushingYard     float64 `json:"rushing_yard"`
	RushingTD       float64 `json:"rushing_td"`
	Rushing100Bonus float64 `json:"rushing_100_bonus"`
	Reception       float64 `json:"reception"`
	ReceivingYard   float64 `json:"receiving_yard"`
	ReceivingTD     float64 `json:"receiving_td"`
	FumbleLost      float64 `json:"fumble_lost"`
	FieldGoal       float64 `json:"field_goal"`
	ExtraPoint      float64 `json:"extra_point"`
}

var standardRules = Rules{
	PassingYard:   0.04,
	PassingTD:     4,
	Interception:  -2,
	RushingYard:   0.1,
	RushingTD:     6,
	ReceivingYard: 0.1,
	ReceivingTD:   6,
	FumbleLost:    -2,
	FieldGoal:     3,
	ExtraPoint:    1,
}

// RulesFor returns the points table of a scoring format. Unknown formats
// score as full PPR, the league default.
func RulesFor(format models.ScoringFormat) Rules {
	r := standardRules
	switch format {
	case models.ScoringStandard:
	case models.ScoringHalfPPR:
		r.Reception = 0.5
	default:
		r.Reception = 1
	}
	return r
}

// Points scores a stat line, rounded to two decimals
func (r Rules) Points(s models.StatLine) float64 {
	pts := float64(s.PassingYards)*r.PassingYard +
		float64(s.PassingTDs)*r.PassingTD +
		float64(s.Interceptions)*r.Interception +
		float64(s.RushingYards)*r.RushingYard +
		float64(s.RushingTDs)*r.RushingTD +
		float64(s.Receptions)*r.Reception +
		float64(s.ReceivingYards)*r.ReceivingYard +
		float64(s.ReceivingTDs)*r.ReceivingTD +
		float64(s.FumblesLost)*r.FumbleLost +
		float64(s.FieldGoals)*r.FieldGoal +
		float64(s.ExtraPoints)*r.ExtraPoint

	if s.PassingYards >= 300 {
		pts += r.Passing300Bonus
	}
	if s.RushingYards >= 100 {
		pts += r.Rushing100Bonus
	}
	return math.Round(pts*100) / 100
}
