package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"winsfinder/internal/contract"
	"winsfinder/internal/report"
)

// analyzeCmd runs the full collect-analyze-render pipeline.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze weekly accomplishments and print a wins report",
	Long: `Collect activity from the configured services, correlate it, and render a wins report.

The analysis prefers an LLM (via OPENROUTER_API_KEY) for correlation
discovery and falls back to deterministic heuristics without one. Every
report is archived to wins history for later export.

Examples:
  # Analyze last week for yourself
  winsfinder analyze

  # A manager-facing report for an explicit window
  winsfinder analyze -t 2024-01-15_to_2024-01-22 -a manager

  # Slack-formatted output focused on specific areas
  winsfinder analyze -f slack --focus technical,leadership`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		bundles, errs := app.CollectActivity(rootCtx, cfg.Services, cfg.StartTime, cfg.EndTime, cfg.UseCache)
		for service, err := range errs {
			contract.LogWarn(fmt.Sprintf("skipping %s", service), err)
		}

		wins := app.Analyzer.AnalyzeWins(rootCtx, bundles, cfg.Audience, cfg.FocusAreas)

		if store := app.Stores.GetActivityStore(); store != nil {
			if _, err := store.SaveHistory(contract.WeekStart(cfg.StartTime), wins); err != nil {
				return fmt.Errorf("failed to save wins history: %w", err)
			}
		}

		rendered, err := report.Render(wins, cfg.Format)
		if err != nil {
			return err
		}

		outPath := viper.GetString("output-file")
		out, err := contract.SelectOutputFile(outPath)
		if err != nil {
			return err
		}
		if outPath != "" {
			defer func() { _ = out.Close() }()
		}

		_, err = fmt.Fprintln(out, rendered)
		return err
	},
}
