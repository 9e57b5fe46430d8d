package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsfinder/internal/analyzer"
	"winsfinder/internal/contract"
	"winsfinder/internal/winstore"
	"winsfinder/schema"
)

// fakeAdapter returns canned results for CollectActivity tests.
type fakeAdapter struct {
	service schema.Service
	bundle  *schema.ActivityBundle
	err     error
}

func (f *fakeAdapter) Name() schema.Service { return f.service }

func (f *fakeAdapter) GetActivity(_ context.Context, _, _ time.Time, _ bool) (*schema.ActivityBundle, error) {
	return f.bundle, f.err
}

func (f *fakeAdapter) TestConnection(_ context.Context) bool { return false }

func TestCollectActivityIsolatesFailures(t *testing.T) {
	good := &schema.ActivityBundle{
		Activities: []schema.ActivityEvent{{Service: schema.GitHubService, Title: "Fix retries"}},
		Summary:    map[string]any{},
	}
	app := &App{
		Adapters: map[schema.Service]contract.ServiceAdapter{
			schema.GitHubService: &fakeAdapter{service: schema.GitHubService, bundle: good},
			schema.LinearService: &fakeAdapter{service: schema.LinearService, err: errors.New("rate limited")},
		},
	}

	requested := []schema.Service{schema.GitHubService, schema.LinearService, schema.NotionService}
	bundles, errs := app.CollectActivity(context.Background(), requested, time.Now().AddDate(0, 0, -7), time.Now(), true)

	require.Len(t, bundles, 3)
	assert.Same(t, good, bundles[schema.GitHubService])
	assert.NoError(t, errs[schema.GitHubService])

	// Failing services still contribute an empty bundle.
	require.NotNil(t, bundles[schema.LinearService])
	assert.Empty(t, bundles[schema.LinearService].Activities)
	assert.ErrorContains(t, errs[schema.LinearService], "rate limited")

	require.NotNil(t, bundles[schema.NotionService])
	assert.ErrorContains(t, errs[schema.NotionService], "no adapter registered")
}

func TestParseFocusAreas(t *testing.T) {
	assert.Nil(t, parseFocusAreas(""))
	assert.Equal(t, []string{"technical", "leadership"}, parseFocusAreas("technical, leadership"))
	assert.Equal(t, []string{"technical"}, parseFocusAreas(" technical ,, "))
}

func TestParseServiceList(t *testing.T) {
	t.Run("defaults to collectable services", func(t *testing.T) {
		out, err := parseServiceList("  ")
		require.NoError(t, err)
		assert.Equal(t, schema.CollectableServices, out)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		out, err := parseServiceList(" GitHub , linear ")
		require.NoError(t, err)
		assert.Equal(t, []schema.Service{schema.GitHubService, schema.LinearService}, out)
	})

	t.Run("rejects unknown services", func(t *testing.T) {
		_, err := parseServiceList("github,jira")
		assert.ErrorContains(t, err, "invalid service 'jira'")
	})

	t.Run("rejects all-empty list", func(t *testing.T) {
		_, err := parseServiceList(",,")
		assert.ErrorContains(t, err, "services list cannot be empty")
	})
}

func resourceHandlerApp(store contract.ActivityStore) *toolHandler {
	mgr := &winstore.MockStoreManager{}
	mgr.On("GetActivityStore").Return(store)
	cfg := &contract.Config{Audience: schema.SelfAudience}
	return &toolHandler{app: NewApp(cfg, mgr, nil, analyzer.New(nil), nil)}
}

func TestCacheStatsResource(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("CacheStats").Return(map[string]schema.CacheStat{
		"github_activity": {Count: 3, Latest: time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)},
	}, nil)
	h := resourceHandlerApp(store)

	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: "cache://stats"}}
	contents, err := h.handleCacheStatsResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "cache://stats", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, "github_activity")
	assert.Contains(t, text.Text, `"count": 3`)
}

func TestCacheStatsResourceErrors(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		h := resourceHandlerApp(nil)
		_, err := h.handleCacheStatsResource(context.Background(), mcp.ReadResourceRequest{})
		assert.ErrorContains(t, err, "activity store is not initialized")
	})

	t.Run("store failure", func(t *testing.T) {
		store := &winstore.MockActivityStore{}
		store.On("CacheStats").Return(nil, errors.New("locked"))
		h := resourceHandlerApp(store)
		_, err := h.handleCacheStatsResource(context.Background(), mcp.ReadResourceRequest{})
		assert.ErrorContains(t, err, "locked")
	})
}

func TestPreferencesResource(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("GetPreference", "audience_preference").Return(json.RawMessage(`"manager"`), true, nil)
	store.On("GetPreference", "focus_areas").Return(nil, false, nil)
	store.On("GetPreference", "report_format").Return(nil, false, nil)
	h := resourceHandlerApp(store)

	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: "preferences://current"}}
	contents, err := h.handlePreferencesResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "preferences://current", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var prefs map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &prefs))
	assert.Equal(t, "manager", prefs["audience_preference"])
	assert.Equal(t, "markdown", prefs["report_format"])
	assert.Equal(t, []any{}, prefs["focus_areas"])
}
