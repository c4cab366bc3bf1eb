package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

func (r *WeeklyRecap) ReportKind() Kind { return KindWeeklyRecap }

func (r *WeeklyRecap) Table() [][]string {
	records := [][]string{{"rank", "team", "owner", "points", "waivers", "trades"}}
	for _, t := range r.Teams {
		records = append(records, []string{
			strconv.Itoa(t.Rank),
			t.TeamName,
			t.Owner,
			formatPoints(t.Points),
			strconv.Itoa(t.Waivers),
			strconv.Itoa(t.Trades),
		})
	}
	return records
}

func (r *SeasonSummary) ReportKind() Kind { return KindSeasonSummary }

func (r *SeasonSummary) Table() [][]string {
	records := [][]string{{
		"rank",
		"team",
		"owner",
		"wins",
		"losses",
		"ties",
		"points_for",
		"points_against",
		"transactions",
	}}
	for _, s := range r.Standings {
		records = append(records, []string{
			strconv.Itoa(s.Rank),
			s.TeamName,
			s.Owner,
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Ties),
			formatPoints(s.PointsFor),
			formatPoints(s.PointsAgainst),
			strconv.Itoa(s.Transactions),
		})
	}
	return records
}

func (r *MemberActivity) ReportKind() Kind { return KindMemberActivity }

func (r *MemberActivity) Table() [][]string {
	records := [][]string{{"username", "team", "messages", "transactions", "logins", "last_login_at"}}
	for _, m := range r.Members {
		lastLogin := ""
		if m.LastLoginAt != nil {
			lastLogin = m.LastLoginAt.UTC().Format(time.RFC3339)
		}
		records = append(records, []string{
			m.Username,
			m.TeamName,
			strconv.Itoa(m.Messages),
			strconv.Itoa(m.Transactions),
			strconv.Itoa(m.Logins),
			lastLogin,
		})
	}
	return records
}

// WriteCSV writes a report's table to w
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rep.Table()); err != nil {
		return fmt.Errorf("failed to write %s csv: %w", rep.ReportKind(), err)
	}
	return nil
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
