// Package analyzer turns collected activity bundles into a wins report.
// It prefers an LLM collaborator for correlation discovery and falls back
// to a deterministic heuristic when no collaborator is available or the
// collaborator misbehaves.
package analyzer

import (
	"context"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// Analyzer extracts wins and cross-service correlations from activity data.
type Analyzer struct {
	completer contract.Completer
}

// New creates an analyzer. A nil completer pins analysis to the
// heuristic path.
func New(completer contract.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// AnalyzeWins produces a wins report for the collected bundles. It never
// fails: LLM errors and unparsable LLM output both route to the
// heuristic path, and the returned report is valid either way.
func (a *Analyzer) AnalyzeWins(ctx context.Context, bundles map[schema.Service]*schema.ActivityBundle, audience schema.Audience, focusAreas []string) *schema.WinsReport {
	if a.completer == nil {
		contract.LogWarn("no LLM completer configured, using heuristic analysis", nil)
		return HeuristicAnalyze(bundles, audience, focusAreas)
	}

	summary := prepareActivitySummary(bundles)
	prompt := buildWinsPrompt(summary, audience, focusAreas)

	content, err := a.completer.Complete(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		contract.LogWarn("LLM analysis call failed, using heuristic analysis", err)
		return HeuristicAnalyze(bundles, audience, focusAreas)
	}

	report, err := parseReport(content, audience, focusAreas)
	if err != nil {
		contract.LogWarn("LLM response did not parse, using heuristic analysis", err)
		return HeuristicAnalyze(bundles, audience, focusAreas)
	}
	return report
}
