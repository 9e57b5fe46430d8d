package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"winsfinder/internal/contract"
	"winsfinder/internal/report"
	"winsfinder/schema"
)

// reportCmd re-renders a previously saved wins report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved wins report in another format",
	Long: `Read a wins report from a JSON file and render it in the requested format.

Use this to turn a report produced by 'analyze --format json' into
markdown or a Slack summary without collecting activity again.

Examples:
  # Render a saved report as markdown
  winsfinder report --input report.json

  # Produce a Slack-ready summary for your manager
  winsfinder report --input report.json --format slack --audience manager`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		inputFile := viper.GetString("input")
		if inputFile == "" {
			return fmt.Errorf("an --input file with report JSON is required")
		}

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("cannot read report file: %w", err)
		}

		var winsReport schema.WinsReport
		if err := json.Unmarshal(raw, &winsReport); err != nil {
			return fmt.Errorf("cannot parse report file: %w", err)
		}
		if cfg.Audience != "" {
			winsReport.Audience = cfg.Audience
		}

		rendered, err := report.Render(&winsReport, cfg.Format)
		if err != nil {
			return err
		}

		outPath := viper.GetString("output-file")
		out, err := contract.SelectOutputFile(outPath)
		if err != nil {
			return err
		}
		if outPath != "" {
			defer out.Close()
		}
		fmt.Fprintln(out, rendered)
		return nil
	},
}
