package reporting

import "time"

// WeekWindow returns the [start, end) of an NFL week in UTC. Week 1 starts
// the Tuesday after Labor Day, the first Monday of September.
func WeekWindow(season, week int) (time.Time, time.Time) {
	sept := time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(sept.Weekday()) + 7) % 7
	laborDay := sept.AddDate(0, 0, offset)
	start := laborDay.AddDate(0, 0, 1+(week-1)*7)
	return start, start.AddDate(0, 0, 7)
}

func seasonStart(season int) time.Time {
	return time.Date(season, time.January, 1, 0, 0, 0, 0, time.UTC)
}
