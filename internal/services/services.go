// Package services implements the external activity source adapters.
// Each adapter normalizes one API into an ActivityBundle and reads
// through the activity store before going to the network.
package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// activityDataType is the data_type key used for cached activity bundles.
const activityDataType = "activity"

// Options configures adapter construction.
type Options struct {
	// Store receives fetched bundles and serves cache hits. A nil store
	// disables caching entirely.
	Store contract.ActivityStore

	// MaxCacheAge is the freshness window for cache reads.
	MaxCacheAge time.Duration

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.MaxCacheAge <= 0 {
		out.MaxCacheAge = contract.DefaultMaxCacheAge
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = contract.DefaultHTTPTimeout
	}
	return out
}

// NewAdapters builds the full adapter registry keyed by service name.
// Credentials are read from the environment at call time; adapters with
// missing credentials are still registered so that auth checks can report
// on them.
func NewAdapters(opts Options) map[schema.Service]contract.ServiceAdapter {
	opts = opts.withDefaults()
	client := &http.Client{Timeout: opts.HTTPTimeout}

	return map[schema.Service]contract.ServiceAdapter{
		schema.GitHubService: NewGitHubAdapter(opts.Store, os.Getenv(contract.EnvGitHubToken), client, opts.MaxCacheAge),
		schema.LinearService: NewLinearAdapter(opts.Store, os.Getenv(contract.EnvLinearAPIKey), client, opts.MaxCacheAge),
		schema.NotionService: NewNotionAdapter(opts.Store, os.Getenv(contract.EnvNotionAPIKey), client, opts.MaxCacheAge),
	}
}

// cachedBundle returns a fresh cached bundle for the window, or nil.
// Store errors degrade to a miss; caching is never load-bearing.
func cachedBundle(store contract.ActivityStore, source schema.Service, start, end time.Time, maxAge time.Duration) *schema.ActivityBundle {
	if store == nil {
		return nil
	}
	bundle, ok, err := store.GetCache(source, activityDataType, start, end, maxAge)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("cache read failed for %s", source), err)
		return nil
	}
	if !ok {
		return nil
	}
	bundle.FromCache = true
	return bundle
}

// storeBundle persists a freshly fetched bundle. Failures are logged and
// swallowed so a broken store never blocks collection.
func storeBundle(store contract.ActivityStore, source schema.Service, bundle *schema.ActivityBundle, start, end time.Time) {
	if store == nil {
		return
	}
	if _, err := store.PutCache(source, activityDataType, bundle, start, end); err != nil {
		contract.LogWarn(fmt.Sprintf("cache write failed for %s", source), err)
	}
}

// decodeJSONResponse reads an HTTP response body and decodes it into out,
// converting non-2xx statuses into a RemoteServiceError.
func decodeJSONResponse(resp *http.Response, service schema.Service, op string, out any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &contract.RemoteServiceError{Service: service, Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &contract.RemoteServiceError{
			Service: service,
			Op:      op,
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &contract.RemoteServiceError{Service: service, Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// truncateBody keeps error messages readable when APIs return HTML pages.
func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
