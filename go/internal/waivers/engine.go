package waivers

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// Resolve decides every pending claim of one league. Claims are grouped by
// player in submission order; each group is ordered by the league's waiver
// type and the first claim that passes the roster and budget checks wins.
// Every other claim in the group fails. State carries across groups, so a
// team that spends its budget or drops a player on an earlier award may
// fail later claims.
func Resolve(in RunInput) *models.WaiverRun {
	st := newRunState(in)
	run := &models.WaiverRun{
		WaiverType:      in.Settings.WaiverType,
		Awarded:         []models.WaiverOutcome{},
		Failed:          []models.WaiverOutcome{},
		BudgetUpdates:   []models.BudgetUpdate{},
		PriorityUpdates: []models.PriorityUpdate{},
		TotalClaims:     len(in.Claims),
		ProcessedAt:     in.Now,
	}

	for _, group := range groupByPlayer(in.Claims) {
		run.PlayersProcessed++
		awarded := false
		for _, c := range st.order(group) {
			outcome := models.WaiverOutcome{
				ClaimID:      c.ID,
				TeamID:       c.TeamID,
				PlayerID:     c.PlayerID,
				DropPlayerID: c.DropPlayerID,
				BidAmount:    st.bid(c),
			}
			if awarded {
				outcome.Reason = reasonAwarded
				run.Failed = append(run.Failed, outcome)
				continue
			}
			if reason := st.check(c); reason != "" {
				outcome.Reason = reason
				run.Failed = append(run.Failed, outcome)
				continue
			}
			st.award(c)
			awarded = true
			run.Awarded = append(run.Awarded, outcome)
			run.TotalFAABSpent += outcome.BidAmount
		}
	}

	for _, id := range st.initialOrder {
		if st.budget[id] != st.teams[id].FAABRemaining {
			run.BudgetUpdates = append(run.BudgetUpdates, models.BudgetUpdate{
				TeamID:    id,
				OldBudget: st.teams[id].FAABRemaining,
				NewBudget: st.budget[id],
			})
		}
	}
	if in.Settings.WaiverType == models.WaiverTypeRolling {
		for i, id := range st.priority {
			if old := st.teams[id].WaiverPriority; old != i+1 {
				run.PriorityUpdates = append(run.PriorityUpdates, models.PriorityUpdate{
					TeamID:      id,
					OldPriority: old,
					NewPriority: i + 1,
				})
			}
		}
	}
	return run
}

type runState struct {
	settings models.LeagueSettings
	teams    map[uuid.UUID]models.FantasyTeam
	owner    map[uuid.UUID]uuid.UUID // player -> team
	onIR     map[uuid.UUID]bool
	active   map[uuid.UUID]int // non-IR roster size per team
	budget   map[uuid.UUID]int

	// initialOrder is the waiver order at the start of the run; priority is
	// the current order, front first.
	initialOrder []uuid.UUID
	priority     []uuid.UUID
	standing     map[uuid.UUID]int // reverse order rank, worst team first
}

func newRunState(in RunInput) *runState {
	st := &runState{
		settings: in.Settings,
		teams:    make(map[uuid.UUID]models.FantasyTeam, len(in.Teams)),
		owner:    make(map[uuid.UUID]uuid.UUID, len(in.Roster)),
		onIR:     make(map[uuid.UUID]bool),
		active:   make(map[uuid.UUID]int, len(in.Teams)),
		budget:   make(map[uuid.UUID]int, len(in.Teams)),
		standing: make(map[uuid.UUID]int, len(in.Teams)),
	}

	teams := append([]models.FantasyTeam(nil), in.Teams...)
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].WaiverPriority < teams[j].WaiverPriority
	})
	for _, t := range teams {
		st.teams[t.ID] = t
		st.budget[t.ID] = t.FAABRemaining
		st.initialOrder = append(st.initialOrder, t.ID)
	}
	st.priority = append([]uuid.UUID(nil), st.initialOrder...)

	// worst record first: a tie counts half a win, then more losses, then fewer points
	sort.SliceStable(teams, func(i, j int) bool {
		ri, rj := recordPoints(teams[i]), recordPoints(teams[j])
		if ri != rj {
			return ri < rj
		}
		if teams[i].Losses != teams[j].Losses {
			return teams[i].Losses > teams[j].Losses
		}
		return teams[i].PointsFor < teams[j].PointsFor
	})
	for i, t := range teams {
		st.standing[t.ID] = i
	}

	for _, slot := range in.Roster {
		st.owner[slot.PlayerID] = slot.TeamID
		if slot.Position == models.RosterPositionIR {
			st.onIR[slot.PlayerID] = true
			continue
		}
		st.active[slot.TeamID]++
	}
	return st
}

// recordPoints scores a record as two per win and one per tie
func recordPoints(t models.FantasyTeam) int {
	return 2*t.Wins + t.Ties
}

func (st *runState) bid(c models.WaiverClaim) int {
	if st.settings.WaiverType != models.WaiverTypeFAAB {
		return 0
	}
	return c.BidAmount
}

func (st *runState) priorityOf(teamID uuid.UUID) int {
	for i, id := range st.priority {
		if id == teamID {
			return i
		}
	}
	return len(st.priority)
}

func (st *runState) standingOf(teamID uuid.UUID) int {
	if s, ok := st.standing[teamID]; ok {
		return s
	}
	return len(st.standing)
}

// order sorts one player's claims into the order they are considered
func (st *runState) order(group []models.WaiverClaim) []models.WaiverClaim {
	out := append([]models.WaiverClaim(nil), group...)
	byPriority := func(a, b models.WaiverClaim) (bool, bool) {
		pa, pb := st.priorityOf(a.TeamID), st.priorityOf(b.TeamID)
		return pa < pb, pa != pb
	}
	bySubmitted := func(a, b models.WaiverClaim) (bool, bool) {
		return a.SubmittedAt.Before(b.SubmittedAt), !a.SubmittedAt.Equal(b.SubmittedAt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch st.settings.WaiverType {
		case models.WaiverTypeFAAB:
			if a.BidAmount != b.BidAmount {
				return a.BidAmount > b.BidAmount
			}
			first, second := byPriority, bySubmitted
			if st.settings.Tiebreaker == models.TiebreakerBidTime {
				first, second = bySubmitted, byPriority
			}
			if less, decided := first(a, b); decided {
				return less
			}
			less, _ := second(a, b)
			return less
		case models.WaiverTypeReverse:
			sa, sb := st.standingOf(a.TeamID), st.standingOf(b.TeamID)
			if sa != sb {
				return sa < sb
			}
		default:
			if less, decided := byPriority(a, b); decided {
				return less
			}
		}
		less, _ := bySubmitted(a, b)
		return less
	})
	return out
}

// check returns why the claim cannot be awarded, or "" when it can
func (st *runState) check(c models.WaiverClaim) string {
	if _, ok := st.teams[c.TeamID]; !ok {
		return reasonNoTeam
	}
	if _, owned := st.owner[c.PlayerID]; owned {
		return reasonUnavailable
	}
	if c.DropPlayerID != nil && st.owner[*c.DropPlayerID] != c.TeamID {
		return reasonDropGone
	}
	if st.bid(c) > st.budget[c.TeamID] {
		return reasonBudget
	}
	if c.DropPlayerID == nil && st.active[c.TeamID] >= st.settings.RosterSize {
		return reasonNoSpace
	}
	return ""
}

func (st *runState) award(c models.WaiverClaim) {
	if c.DropPlayerID != nil {
		drop := *c.DropPlayerID
		delete(st.owner, drop)
		if st.onIR[drop] {
			delete(st.onIR, drop)
		} else {
			st.active[c.TeamID]--
		}
	}
	st.owner[c.PlayerID] = c.TeamID
	st.active[c.TeamID]++
	st.budget[c.TeamID] -= st.bid(c)

	if st.settings.WaiverType == models.WaiverTypeRolling {
		i := st.priorityOf(c.TeamID)
		if i < len(st.priority) {
			st.priority = append(append(st.priority[:i:i], st.priority[i+1:]...), c.TeamID)
		}
	}
}

// groupByPlayer splits claims per player, keeping players in the order their
// first claim was submitted.
func groupByPlayer(claims []models.WaiverClaim) [][]models.WaiverClaim {
	sorted := append([]models.WaiverClaim(nil), claims...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	index := make(map[uuid.UUID]int)
	var groups [][]models.WaiverClaim
	for _, c := range sorted {
		i, ok := index[c.PlayerID]
		if !ok {
			i = len(groups)
			index[c.PlayerID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], c)
	}
	return groups
}
