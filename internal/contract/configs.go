package contract

import (
	"fmt"
	"strings"
	"time"

	"winsfinder/schema"
)

// Default values for configuration.
const (
	DefaultMaxCacheAge  = 6 * time.Hour
	DefaultSweepDays    = 7
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultAudience     = schema.SelfAudience
	DefaultReportFormat = schema.MarkdownFormat
)

// Environment variable names for service credentials. Credential handling
// beyond presence checks is out of scope.
const (
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvLinearAPIKey     = "LINEAR_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvNotionAPIKey     = "NOTION_API_KEY"
	EnvSlackWebhookURL  = "SLACK_WEBHOOK_URL"
)

// Config holds the validated runtime configuration.
// Fields requiring parsing (timeframe, service list) are populated by
// ProcessAndValidate from the raw flag inputs.
type Config struct {
	StartTime   time.Time           // Start of the analysis window
	EndTime     time.Time           // End of the analysis window
	Audience    schema.Audience     // Target audience for reports
	FocusAreas  []string            // Focus areas passed through to analysis
	Format      schema.ReportFormat // Report output format
	Services    []schema.Service    // Services to collect from
	UseCache    bool                // Serve fresh cached bundles when available
	MaxCacheAge time.Duration       // Freshness window for cache reads

	StoreBackend   schema.DatabaseBackend // Activity store backend
	StoreDBConnect string                 // Connection string for mysql/postgresql
}

// Clone returns a copy of the config safe for per-request mutation.
// Slices are copied so callers cannot alias the base config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.FocusAreas = append([]string(nil), c.FocusAreas...)
	clone.Services = append([]schema.Service(nil), c.Services...)
	return &clone
}

// ConfigRawInput holds the raw string inputs from flags that require
// parsing/validation. These fields are bound to Viper keys in cmd.
type ConfigRawInput struct {
	Timeframe      string `mapstructure:"timeframe"`
	Audience       string `mapstructure:"audience"`
	FocusStr       string `mapstructure:"focus"`
	Format         string `mapstructure:"format"`
	ServicesStr    string `mapstructure:"services"`
	UseCache       bool   `mapstructure:"use-cache"`
	MaxCacheAgeHrs int    `mapstructure:"max-cache-age"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Timeframe ---
	cfg.StartTime, cfg.EndTime = ParseTimeframe(input.Timeframe, time.Now())

	// --- 2. Audience Validation ---
	audience := schema.Audience(strings.ToLower(input.Audience))
	if audience == "" {
		audience = DefaultAudience
	}
	if _, ok := schema.ValidAudiences[audience]; !ok {
		return fmt.Errorf("invalid audience '%s'. must be self, manager, peer, performance_review", input.Audience)
	}
	cfg.Audience = audience

	// --- 3. Format Validation ---
	format := schema.ReportFormat(strings.ToLower(input.Format))
	if format == "" {
		format = DefaultReportFormat
	}
	if _, ok := schema.ValidReportFormats[format]; !ok {
		return fmt.Errorf("invalid format '%s'. must be markdown, json, slack", input.Format)
	}
	cfg.Format = format

	// --- 4. Services ---
	cfg.Services = nil
	if input.ServicesStr == "" {
		cfg.Services = append(cfg.Services, schema.CollectableServices...)
	} else {
		for part := range strings.SplitSeq(input.ServicesStr, ",") {
			svc := schema.Service(strings.ToLower(strings.TrimSpace(part)))
			if svc == "" {
				continue
			}
			if _, ok := schema.ValidServices[svc]; !ok {
				return fmt.Errorf("invalid service '%s'. must be github, linear, notion, slack", part)
			}
			cfg.Services = append(cfg.Services, svc)
		}
		if len(cfg.Services) == 0 {
			return fmt.Errorf("services list cannot be empty")
		}
	}

	// --- 5. Focus Areas ---
	cfg.FocusAreas = nil
	for part := range strings.SplitSeq(input.FocusStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cfg.FocusAreas = append(cfg.FocusAreas, trimmed)
		}
	}

	// --- 6. Cache Settings ---
	cfg.UseCache = input.UseCache
	if input.MaxCacheAgeHrs < 0 {
		return fmt.Errorf("max-cache-age must be non-negative (received %d)", input.MaxCacheAgeHrs)
	}
	cfg.MaxCacheAge = DefaultMaxCacheAge
	if input.MaxCacheAgeHrs > 0 {
		cfg.MaxCacheAge = time.Duration(input.MaxCacheAgeHrs) * time.Hour
	}

	// --- 7. Store Backend ---
	backend := schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, or none", input.StoreBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.StoreDBConnect); err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect

	return nil
}

// ValidateDatabaseConnectionString checks that SQL backends carry a
// connection string. SQLite resolves a default file path instead.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required for %s backend", backend)
		}
	}
	return nil
}
