// Package contract provides interfaces and shared utilities for the winsfinder internal architecture.
package contract

import (
	"context"
	"encoding/json"
	"time"

	"winsfinder/schema"
)

// ServiceAdapter defines the operations every activity source exposes.
// The core only depends on this shape, not on any service-specific
// transport detail. This allows adapters to be mocked for testing.
type ServiceAdapter interface {
	// Name returns the service this adapter fetches from.
	Name() schema.Service

	// GetActivity fetches the normalized activity bundle for a date range,
	// consulting the activity store for a fresh cached copy first when
	// useCache is set.
	GetActivity(ctx context.Context, start, end time.Time, useCache bool) (*schema.ActivityBundle, error)

	// TestConnection reports whether the adapter can reach its remote API
	// with the configured credentials.
	TestConnection(ctx context.Context) bool
}

// Completer defines the single operation the LLM collaborator exposes.
// Calls are fallible and timeout-bounded; any failure routes the analyzer
// to its heuristic path.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// StoreManager defines the interface for accessing the activity store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetActivityStore() ActivityStore
}

// ActivityStore defines the durable cache + preference + history store.
// Each operation is one self-contained transaction.
type ActivityStore interface {
	// PutCache serializes a bundle and inserts a new cache row with the
	// current fetch time. Duplicate windows are allowed; reads resolve
	// ties by latest fetch time.
	PutCache(source schema.Service, dataType string, bundle *schema.ActivityBundle, start, end time.Time) (int64, error)

	// GetCache returns the most recently fetched bundle for the exact
	// window, or false when no row is fresh within maxAge. The window must
	// match exactly; overlapping or containing windows never hit.
	GetCache(source schema.Service, dataType string, start, end time.Time, maxAge time.Duration) (*schema.ActivityBundle, bool, error)

	// PutPreference upserts a preference value by key.
	PutPreference(key string, value any) error

	// GetPreference returns the raw JSON value for a key, or false when absent.
	GetPreference(key string) (json.RawMessage, bool, error)

	// SaveHistory appends a wins report to the history log.
	SaveHistory(weekStart time.Time, report *schema.WinsReport) (int64, error)

	// GetAllHistory retrieves all archived wins reports, oldest first.
	GetAllHistory() ([]schema.HistoryRecord, error)

	// SaveCorrelation appends a discovered correlation. Confidence is
	// stored as given; callers are trusted.
	SaveCorrelation(primarySource schema.Service, primaryID string, related []schema.ActivityEvent, confidence float64, corrType schema.CorrelationType) (int64, error)

	// CacheStats aggregates cache rows grouped by (source, data_type).
	CacheStats() (map[string]schema.CacheStat, error)

	// SweepCache deletes cache rows fetched before the cutoff and returns
	// the number of rows removed. Irreversible.
	SweepCache(olderThan time.Duration) (int64, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// PreferenceString decodes a stored preference into a string, returning
// def when the key is absent or the stored value is not a JSON string.
func PreferenceString(store ActivityStore, key, def string) string {
	raw, ok, err := store.GetPreference(key)
	if err != nil || !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

// PreferenceStrings decodes a stored preference into a string slice,
// returning def when the key is absent or malformed.
func PreferenceStrings(store ActivityStore, key string, def []string) []string {
	raw, ok, err := store.GetPreference(key)
	if err != nil || !ok {
		return def
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return def
	}
	return out
}
