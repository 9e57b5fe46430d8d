// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"winsfinder/internal/analyzer"
	"winsfinder/internal/contract"
	"winsfinder/internal/services"
	"winsfinder/schema"
)

// App bundles every collaborator the tool surface needs. It is built
// once at process start and passed by reference; there is no ambient
// global state in this package.
type App struct {
	BaseCfg  *contract.Config
	Stores   contract.StoreManager
	Adapters map[schema.Service]contract.ServiceAdapter
	Analyzer *analyzer.Analyzer
	Slack    *services.SlackNotifier
}

// NewApp wires an application context from its parts.
func NewApp(baseCfg *contract.Config, stores contract.StoreManager, adapters map[schema.Service]contract.ServiceAdapter, an *analyzer.Analyzer, slack *services.SlackNotifier) *App {
	return &App{
		BaseCfg:  baseCfg,
		Stores:   stores,
		Adapters: adapters,
		Analyzer: an,
		Slack:    slack,
	}
}

// collectResult records one service's collection outcome.
type collectResult struct {
	bundle *schema.ActivityBundle
	err    error
}

// CollectActivity fetches bundles from the requested services
// sequentially. Failures are isolated per service: a failing adapter
// contributes an empty bundle and its error is reported alongside,
// never aborting the other services.
func (a *App) CollectActivity(ctx context.Context, requested []schema.Service, start, end time.Time, useCache bool) (map[schema.Service]*schema.ActivityBundle, map[schema.Service]error) {
	bundles := make(map[schema.Service]*schema.ActivityBundle)
	errs := make(map[schema.Service]error)

	for _, service := range requested {
		result := a.collectOne(ctx, service, start, end, useCache)
		if result.err != nil {
			contract.LogWarn(fmt.Sprintf("failed to collect %s data", service), result.err)
			bundles[service] = &schema.ActivityBundle{Summary: map[string]any{}}
			errs[service] = result.err
			continue
		}
		bundles[service] = result.bundle
	}
	return bundles, errs
}

func (a *App) collectOne(ctx context.Context, service schema.Service, start, end time.Time, useCache bool) collectResult {
	adapter, ok := a.Adapters[service]
	if !ok {
		return collectResult{err: fmt.Errorf("no adapter registered for service %s", service)}
	}
	bundle, err := adapter.GetActivity(ctx, start, end, useCache)
	if err != nil {
		return collectResult{err: err}
	}
	return collectResult{bundle: bundle}
}

// parseFocusAreas splits a comma-separated focus list.
func parseFocusAreas(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseServiceList splits and validates a comma-separated service list,
// defaulting to the collectable services.
func parseServiceList(raw string) ([]schema.Service, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]schema.Service(nil), schema.CollectableServices...), nil
	}
	var out []schema.Service
	for part := range strings.SplitSeq(raw, ",") {
		svc := schema.Service(strings.ToLower(strings.TrimSpace(part)))
		if svc == "" {
			continue
		}
		if _, ok := schema.ValidServices[svc]; !ok {
			return nil, fmt.Errorf("invalid service '%s'", strings.TrimSpace(part))
		}
		out = append(out, svc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("services list cannot be empty")
	}
	return out, nil
}
