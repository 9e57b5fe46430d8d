package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"winsfinder/internal/contract"
	"winsfinder/internal/winstore"
)

// historyCmd focused on wins history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored wins reports",
	Long: `Manage the wins history that accumulates with every analysis.

Each 'analyze' run appends its report to the history, keyed by the
Monday of the analyzed week. Multiple reports per week are kept.

Subcommands:
  list   - List archived reports
  export - Export history to Parquet for analytics

Examples:
  # See what has been archived so far
  winsfinder history list

  # Export history for analysis in pandas/DuckDB
  winsfinder history export --output-file wins-data.parquet`,
}

// historyListCmd prints the archived reports as a table.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived wins reports",
	Long: `List all stored wins reports, newest first.

Shows the analyzed week, when the report was created, its audience and
top win with the win's impact level.`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := winstore.ExecuteHistoryList(); err != nil {
			contract.LogFatal("Failed to list wins history", err)
		}
	},
}

// historyExportCmd exports wins history to a Parquet file.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export wins history to Parquet for BI tools and analytics",
	Long: `Export all stored wins reports to Parquet format for use with analytics tools.

Each row holds one report with its week, creation time and summary
columns (total activities, correlation count, audience) lifted out of
the report JSON for easy querying.

Examples:
  # Export all history
  winsfinder history export --output-file wins-data.parquet`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := winstore.ExecuteHistoryExport(viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export wins history", err)
		}
	},
}
