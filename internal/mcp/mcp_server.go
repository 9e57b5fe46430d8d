package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the winsfinder MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(app *App) *server.MCPServer {
	s := server.NewMCPServer(
		"Wins Finder Server",
		"1.0.0",
		server.WithLogging(),
		server.WithResourceCapabilities(true, false),
	)

	h := &toolHandler{app: app}

	// --- 1. Tool: analyze_weekly_wins ---
	s.AddTool(mcp.NewTool("analyze_weekly_wins",
		mcp.WithDescription("Analyze weekly accomplishments across GitHub, Linear and Notion, returning a markdown wins report."),
		mcp.WithString("timeframe", mcp.Description("Time period to analyze (e.g. 'last_week', '2024-01-15_to_2024-01-22'). Defaults to 'last_week'.")),
		mcp.WithString("audience", mcp.Description("Target audience for the report."), mcp.Enum("self", "manager", "peer", "performance_review")),
		mcp.WithString("focus_areas", mcp.Description("Comma-separated focus areas (e.g. 'technical,leadership,collaboration').")),
	), h.handleAnalyzeWeeklyWins)

	// --- 2. Tool: test_authentication ---
	s.AddTool(mcp.NewTool("test_authentication",
		mcp.WithDescription("Test authentication for all configured services using environment variables."),
	), h.handleTestAuthentication)

	// --- 3. Tool: collect_activity_data ---
	s.AddTool(mcp.NewTool("collect_activity_data",
		mcp.WithDescription("Collect activity data from the specified services and report per-service counts."),
		mcp.WithString("timeframe", mcp.Description("Time period for data collection."), mcp.Required()),
		mcp.WithString("services", mcp.Description("Comma-separated services to collect from (github, linear, notion). Defaults to all.")),
		mcp.WithBoolean("use_cache", mcp.Description("Serve fresh cached data when available. Defaults to true.")),
	), h.handleCollectActivityData)

	// --- 4. Tool: correlate_activities ---
	s.AddTool(mcp.NewTool("correlate_activities",
		mcp.WithDescription("Find correlations between activities across services."),
		mcp.WithBoolean("force_refresh", mcp.Description("Force refresh of correlations.")),
	), h.handleCorrelateActivities)

	// --- 5. Tool: generate_report ---
	s.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Generate a wins report from previously analyzed data."),
		mcp.WithObject("wins_data", mcp.Description("Analyzed wins data, as returned by analyze_weekly_wins in JSON format."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Output format."), mcp.Enum("markdown", "json", "slack")),
		mcp.WithString("audience", mcp.Description("Target audience."), mcp.Enum("self", "manager", "peer", "performance_review")),
	), h.handleGenerateReport)

	// --- 6. Tool: save_preferences ---
	s.AddTool(mcp.NewTool("save_preferences",
		mcp.WithDescription("Save user preferences for report generation."),
		mcp.WithObject("preferences", mcp.Description("Preference keys and values to save."), mcp.Required()),
	), h.handleSavePreferences)

	// --- 7. Tool: post_to_slack ---
	s.AddTool(mcp.NewTool("post_to_slack",
		mcp.WithDescription("Post a wins summary to a Slack channel."),
		mcp.WithString("report_summary", mcp.Description("Summary text to post."), mcp.Required()),
		mcp.WithString("channel_hint", mcp.Description("Channel to post to (optional).")),
	), h.handlePostToSlack)

	// --- 8. Tool: clear_cache ---
	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Clear cached API data older than a number of days."),
		mcp.WithNumber("older_than_days", mcp.Description("Clear cache rows older than N days. Defaults to 7.")),
	), h.handleClearCache)

	// --- Resource: cache://stats ---
	s.AddResource(mcp.NewResource("cache://stats", "Cache Statistics",
		mcp.WithResourceDescription("Cached API data statistics grouped by source."),
		mcp.WithMIMEType("application/json"),
	), h.handleCacheStatsResource)

	// --- Resource: preferences://current ---
	s.AddResource(mcp.NewResource("preferences://current", "Current Preferences",
		mcp.WithResourceDescription("Current user settings and preferences."),
		mcp.WithMIMEType("application/json"),
	), h.handlePreferencesResource)

	return s
}

// StartMCPServer starts the winsfinder MCP server on stdio.
func StartMCPServer(_ context.Context, app *App) error {
	s := NewMCPServer(app)
	return server.ServeStdio(s)
}
