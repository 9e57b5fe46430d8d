package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"winsfinder/internal/analyzer"
	"winsfinder/internal/contract"
	mcp_internal "winsfinder/internal/mcp"
	"winsfinder/internal/services"
	"winsfinder/internal/winstore"
	"winsfinder/schema"
)

// stubAdapter is a canned ServiceAdapter for driving tool handlers
// without any network access.
type stubAdapter struct {
	service   schema.Service
	bundle    *schema.ActivityBundle
	err       error
	connected bool
}

func (s *stubAdapter) Name() schema.Service { return s.service }

func (s *stubAdapter) GetActivity(_ context.Context, _, _ time.Time, _ bool) (*schema.ActivityBundle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bundle, nil
}

func (s *stubAdapter) TestConnection(_ context.Context) bool { return s.connected }

func stubBundle(service schema.Service, titles ...string) *schema.ActivityBundle {
	bundle := &schema.ActivityBundle{Summary: map[string]any{}}
	for _, title := range titles {
		bundle.Activities = append(bundle.Activities, schema.ActivityEvent{
			Service:   service,
			Type:      schema.PullRequestActivity,
			Title:     title,
			CreatedAt: "2026-08-25T10:00:00Z",
		})
	}
	return bundle
}

func newTestApp(store contract.ActivityStore, adapters map[schema.Service]contract.ServiceAdapter) *mcp_internal.App {
	mgr := &winstore.MockStoreManager{}
	mgr.On("GetActivityStore").Return(store)
	cfg := &contract.Config{Audience: schema.SelfAudience}
	return mcp_internal.NewApp(cfg, mgr, adapters, analyzer.New(nil), services.NewSlackNotifier("", nil))
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerToolRegistration(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))
	require.NotNil(t, s)

	for _, name := range []string{
		"analyze_weekly_wins",
		"test_authentication",
		"collect_activity_data",
		"correlate_activities",
		"generate_report",
		"save_preferences",
		"post_to_slack",
		"clear_cache",
	} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// Validation should reject these requests before any adapter or
	// store access, so an empty app suffices.
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

	ctx := context.Background()

	t.Run("analyze_weekly_wins invalid audience", func(t *testing.T) {
		tool := s.GetTool("analyze_weekly_wins")
		require.NotNil(t, tool, "Tool analyze_weekly_wins should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "analyze_weekly_wins",
				Arguments: map[string]any{
					"audience": "everyone", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid audience 'everyone'")
	})

	t.Run("collect_activity_data missing timeframe", func(t *testing.T) {
		res := callTool(t, s, "collect_activity_data", map[string]any{
			"timeframe": "", // Missing required
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "timeframe is required")
	})

	t.Run("collect_activity_data invalid service", func(t *testing.T) {
		res := callTool(t, s, "collect_activity_data", map[string]any{
			"timeframe": "last_week",
			"services":  "github,jira", // jira is not a known service
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid service 'jira'")
	})

	t.Run("generate_report missing wins_data", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"format": "markdown",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "wins_data is required")
	})

	t.Run("save_preferences missing preferences", func(t *testing.T) {
		res := callTool(t, s, "save_preferences", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "preferences is required")
	})

	t.Run("save_preferences non-object preferences", func(t *testing.T) {
		res := callTool(t, s, "save_preferences", map[string]any{
			"preferences": "audience_preference=manager",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "preferences must be an object")
	})

	t.Run("post_to_slack missing report_summary", func(t *testing.T) {
		res := callTool(t, s, "post_to_slack", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "report_summary is required")
	})

	t.Run("clear_cache negative days", func(t *testing.T) {
		res := callTool(t, s, "clear_cache", map[string]any{
			"older_than_days": -1.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "older_than_days must be non-negative")
	})
}

func TestMCPServerAnalyzeWeeklyWins(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("SaveHistory", mock.Anything, mock.Anything).Return(int64(1), nil)

	adapters := map[schema.Service]contract.ServiceAdapter{
		schema.GitHubService: &stubAdapter{
			service: schema.GitHubService,
			bundle:  stubBundle(schema.GitHubService, "Fix billing retries", "Add billing webhooks"),
		},
		schema.LinearService: &stubAdapter{
			service: schema.LinearService,
			bundle:  stubBundle(schema.LinearService, "Billing incident followup"),
		},
		schema.NotionService: &stubAdapter{
			service: schema.NotionService,
			bundle:  stubBundle(schema.NotionService),
		},
	}
	app := newTestApp(store, adapters)
	s := mcp_internal.NewMCPServer(app)

	res := callTool(t, s, "analyze_weekly_wins", map[string]any{
		"timeframe":   "last_week",
		"audience":    "manager",
		"focus_areas": "billing, reliability",
	})
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "# Weekly Accomplishments - Manager Report")
	assert.Contains(t, text, "- **Total Activities**: 3")
	store.AssertCalled(t, "SaveHistory", mock.Anything, mock.Anything)

	// Request arguments only touch a per-request clone of the config
	assert.Equal(t, schema.SelfAudience, app.BaseCfg.Audience)
	assert.Empty(t, app.BaseCfg.FocusAreas)
	assert.True(t, app.BaseCfg.StartTime.IsZero())
}

func TestMCPServerCollectActivityData(t *testing.T) {
	cached := stubBundle(schema.GitHubService, "Fix flaky retry test")
	cached.FromCache = true

	adapters := map[schema.Service]contract.ServiceAdapter{
		schema.GitHubService: &stubAdapter{service: schema.GitHubService, bundle: cached},
		schema.LinearService: &stubAdapter{service: schema.LinearService, err: errors.New("boom")},
	}
	s := mcp_internal.NewMCPServer(newTestApp(nil, adapters))

	res := callTool(t, s, "collect_activity_data", map[string]any{
		"timeframe": "last_week",
		"services":  "github,linear",
	})
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "Activity data collection results:")
	assert.Contains(t, text, "✅ github: 1 activities (cached)")
	assert.Contains(t, text, "❌ linear: boom")
}

func TestMCPServerCorrelateActivities(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

	res := callTool(t, s, "correlate_activities", map[string]any{})
	assert.False(t, res.IsError)
	assert.Equal(t, "Correlation analysis completed. Found 3 cross-service connections.", resultText(t, res))
}

func TestMCPServerGenerateReport(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

	winsData := map[string]any{
		"summary": map[string]any{
			"total_activities":           4.0,
			"cross_service_correlations": 1.0,
		},
		"categories": map[string]any{
			"technical_contribution": map[string]any{
				"title":          "Code Contributions",
				"description":    "Merged 4 pull requests",
				"impact":         "high",
				"evidence_count": 4.0,
			},
		},
		"correlations": []any{},
		"audience":     "self",
	}

	t.Run("renders markdown with audience override", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"wins_data": winsData,
			"format":    "markdown",
			"audience":  "manager",
		})
		assert.False(t, res.IsError)

		text := resultText(t, res)
		assert.Contains(t, text, "# Weekly Accomplishments - Manager Report")
		assert.Contains(t, text, "Code Contributions")
	})

	t.Run("renders slack", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"wins_data": winsData,
			"format":    "slack",
		})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), "🎉 *Weekly Wins Summary*")
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"wins_data": winsData,
			"format":    "xml",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Error generating report")
	})

	t.Run("rejects malformed wins_data", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"wins_data": map[string]any{"summary": "not an object"},
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "does not match report shape")
	})
}

func TestMCPServerSavePreferences(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("PutPreference", "audience_preference", "manager").Return(nil)
	store.On("PutPreference", "report_format", "slack").Return(nil)
	s := mcp_internal.NewMCPServer(newTestApp(store, nil))

	res := callTool(t, s, "save_preferences", map[string]any{
		"preferences": map[string]any{
			"audience_preference": "manager",
			"report_format":       "slack",
		},
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "Saved 2 preferences", resultText(t, res))
	store.AssertExpectations(t)
}

func TestMCPServerSavePreferencesStoreFailure(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("PutPreference", "report_format", "slack").Return(errors.New("disk full"))
	s := mcp_internal.NewMCPServer(newTestApp(store, nil))

	res := callTool(t, s, "save_preferences", map[string]any{
		"preferences": map[string]any{"report_format": "slack"},
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "disk full")
}

func TestMCPServerPostToSlack(t *testing.T) {
	// The Slack notifier is a stub; delivery always fails with a stable message.
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

	res := callTool(t, s, "post_to_slack", map[string]any{
		"report_summary": "Shipped billing retries this week",
	})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "❌ Failed to post to Slack")
	assert.Contains(t, resultText(t, res), "not implemented")
}

func TestMCPServerClearCache(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("SweepCache", 3*24*time.Hour).Return(int64(4), nil)
	s := mcp_internal.NewMCPServer(newTestApp(store, nil))

	res := callTool(t, s, "clear_cache", map[string]any{
		"older_than_days": 3.0,
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "✅ Cleared 4 cache entries older than 3 days", resultText(t, res))
	store.AssertExpectations(t)
}

func TestMCPServerClearCacheDefaultsDays(t *testing.T) {
	store := &winstore.MockActivityStore{}
	store.On("SweepCache", time.Duration(contract.DefaultSweepDays)*24*time.Hour).Return(int64(0), nil)
	s := mcp_internal.NewMCPServer(newTestApp(store, nil))

	res := callTool(t, s, "clear_cache", map[string]any{})
	assert.False(t, res.IsError)
	assert.Equal(t, "✅ Cleared 0 cache entries older than 7 days", resultText(t, res))
}

func TestMCPServerClearCacheNoStore(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

	res := callTool(t, s, "clear_cache", map[string]any{"older_than_days": 7.0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "activity store is not initialized")
}

func TestMCPServerTestAuthentication(t *testing.T) {
	for _, envVar := range []string{
		contract.EnvGitHubToken,
		contract.EnvLinearAPIKey,
		contract.EnvNotionAPIKey,
		contract.EnvOpenRouterAPIKey,
		contract.EnvSlackWebhookURL,
	} {
		t.Setenv(envVar, "")
	}

	t.Run("no credentials configured", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(newTestApp(nil, nil))

		res := callTool(t, s, "test_authentication", map[string]any{})
		assert.False(t, res.IsError)

		text := resultText(t, res)
		assert.Contains(t, text, "⚠️ GitHub: No GITHUB_TOKEN environment variable")
		assert.Contains(t, text, "⚠️ OpenRouter: No OPENROUTER_API_KEY environment variable")
		assert.Contains(t, text, "⚠️ Linear: No LINEAR_API_KEY environment variable")
		assert.Contains(t, text, "⚠️ Notion: No NOTION_API_KEY environment variable")
		assert.Contains(t, text, "⚠️ Slack: No SLACK_WEBHOOK_URL environment variable")
	})

	t.Run("probes configured adapters", func(t *testing.T) {
		t.Setenv(contract.EnvGitHubToken, "ghp_test")
		t.Setenv(contract.EnvLinearAPIKey, "lin_api_test")

		adapters := map[schema.Service]contract.ServiceAdapter{
			schema.GitHubService: &stubAdapter{service: schema.GitHubService, connected: true},
			schema.LinearService: &stubAdapter{service: schema.LinearService, connected: false},
		}
		s := mcp_internal.NewMCPServer(newTestApp(nil, adapters))

		res := callTool(t, s, "test_authentication", map[string]any{})
		text := resultText(t, res)
		assert.Contains(t, text, "✅ GitHub: Connected")
		assert.Contains(t, text, "❌ Linear: Failed")
		assert.Contains(t, text, "⚠️ Notion: No NOTION_API_KEY environment variable")
	})
}
