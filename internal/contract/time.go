package contract

import (
	"strings"
	"time"
)

// ParseTimeframe parses a timeframe string into start and end bounds.
//
// Grammar:
//   - "last_week" resolves to the most recent Monday through Sunday prior
//     to the current week.
//   - "<ISO8601>_to_<ISO8601>" resolves to the explicit bounds.
//   - Anything else silently resolves like "last_week". This default is a
//     documented quirk, not an error.
func ParseTimeframe(timeframe string, now time.Time) (time.Time, time.Time) {
	if idx := strings.Index(timeframe, "_to_"); idx >= 0 && timeframe != "last_week" {
		startStr := timeframe[:idx]
		endStr := timeframe[idx+len("_to_"):]
		start, errStart := parseISODate(startStr)
		end, errEnd := parseISODate(endStr)
		if errStart == nil && errEnd == nil {
			return start, end
		}
	}
	return lastWeek(now)
}

// lastWeek returns the Monday through Sunday of the week before now.
func lastWeek(now time.Time) (time.Time, time.Time) {
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := now.AddDate(0, 0, -(daysSinceMonday + 7))
	end := start.AddDate(0, 0, 6)
	return start, end
}

// parseISODate accepts a bare date or a full RFC 3339 timestamp.
func parseISODate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// WeekStart truncates a window start to midnight. History rows are keyed
// by this value.
func WeekStart(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}
