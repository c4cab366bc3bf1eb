package waivers

import (
	"strings"
	"time"

	"github.com/mcdev12/gridiron/go/internal/models"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NextProcessDate returns the first league processing day and time strictly
// after now, in UTC. Unparseable settings fall back to Wednesday 03:00.
func NextProcessDate(settings models.LeagueSettings, now time.Time) time.Time {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(settings.WaiverProcessDay))]
	if !ok {
		day = time.Wednesday
	}
	at, err := time.Parse("15:04", strings.TrimSpace(settings.WaiverProcessTime))
	if err != nil {
		at = time.Date(0, 1, 1, 3, 0, 0, 0, time.UTC)
	}

	now = now.UTC()
	days := (int(day) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day()+days, at.Hour(), at.Minute(), 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
