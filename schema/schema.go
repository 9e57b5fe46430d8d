// Package schema has configs, models and shared constants for all parts of winsfinder.
package schema

import "time"

// UserInfo identifies the authenticated user on a service.
type UserInfo struct {
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ActivityEvent is one unit of work observed on a service. Events are
// immutable once fetched; they are only ever re-fetched wholesale, so no
// primary key is enforced.
type ActivityEvent struct {
	Service   Service      `json:"service,omitempty"`
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	CreatedAt string       `json:"created_at"` // RFC 3339 as reported by the source
	Repo      string       `json:"repo,omitempty"`
	Labels    []string     `json:"labels,omitempty"`
}

// Day returns the UTC calendar date of the event in YYYY-MM-DD form.
// The second return is false when created_at cannot be parsed; such
// events are excluded from temporal clustering but not keyword clustering.
func (e *ActivityEvent) Day() (string, bool) {
	t, err := ParseEventTime(e.CreatedAt)
	if err != nil {
		return "", false
	}
	return t.UTC().Format("2006-01-02"), true
}

// ParseEventTime parses a source-reported event timestamp. Sources report
// RFC 3339 timestamps with or without sub-second precision or zone suffix.
func ParseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// ActivityBundle is the per-service fetch result. A fresh bundle is built
// on every adapter call; FromCache records whether the payload was served
// from the activity store instead of the remote API.
type ActivityBundle struct {
	User       UserInfo       `json:"user"`
	Activities []ActivityEvent `json:"activities"`
	Summary    map[string]any `json:"summary,omitempty"`
	FromCache  bool           `json:"from_cache"`
}

// CacheStat aggregates cache rows for one (source, data_type) pair.
type CacheStat struct {
	Count    int64     `json:"count"`
	Latest   time.Time `json:"latest"`
	Earliest time.Time `json:"earliest"`
}

// StoreStatus holds status information about the activity store.
type StoreStatus struct {
	Backend      string               `json:"backend"`
	Connected    bool                 `json:"connected"`
	TotalEntries int64                `json:"total_entries"`
	Stats        map[string]CacheStat `json:"stats,omitempty"`
}

// HistoryRecord is one archived wins report row.
type HistoryRecord struct {
	ID         int64     `json:"id"`
	WeekStart  time.Time `json:"week_start"`
	ReportJSON string    `json:"report_json"`
	CreatedAt  time.Time `json:"created_at"`
}
