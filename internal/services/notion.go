package services

import (
	"context"
	"net/http"
	"time"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// notionAPIBaseURL is the Notion REST endpoint.
const notionAPIBaseURL = "https://api.notion.com"

// notionVersion pins the Notion API revision.
const notionVersion = "2022-06-28"

// NotionAdapter is a placeholder source. Connectivity checks work against
// the real API, but activity collection always yields an empty bundle.
type NotionAdapter struct {
	store       contract.ActivityStore
	apiKey      string
	baseURL     string
	client      *http.Client
	maxCacheAge time.Duration
}

var _ contract.ServiceAdapter = &NotionAdapter{} // Compile-time check

// NewNotionAdapter creates a Notion adapter.
func NewNotionAdapter(store contract.ActivityStore, apiKey string, client *http.Client, maxCacheAge time.Duration) *NotionAdapter {
	return &NotionAdapter{
		store:       store,
		apiKey:      apiKey,
		baseURL:     notionAPIBaseURL,
		client:      client,
		maxCacheAge: maxCacheAge,
	}
}

// Name implements the ServiceAdapter interface.
func (n *NotionAdapter) Name() schema.Service {
	return schema.NotionService
}

// TestConnection implements the ServiceAdapter interface.
func (n *NotionAdapter) TestConnection(ctx context.Context) bool {
	if n.apiKey == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v1/users/me", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := n.client.Do(req)
	if err != nil {
		contract.LogWarn("Notion connection test failed", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// GetActivity implements the ServiceAdapter interface.
// TODO: collect recently edited pages via /v1/search once page-to-event
// normalization is settled.
func (n *NotionAdapter) GetActivity(ctx context.Context, start, end time.Time, useCache bool) (*schema.ActivityBundle, error) {
	return &schema.ActivityBundle{Summary: map[string]any{}}, nil
}
