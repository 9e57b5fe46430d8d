// Package cmd defines the command-line interface for winsfinder.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the prefs subcommands to the parent prefs command
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsShowCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("timeframe", "t", "last_week", "Time period to analyze (last_week or <ISO8601>_to_<ISO8601>)")
	rootCmd.PersistentFlags().StringP("audience", "a", string(contract.DefaultAudience), "Report audience: self, manager, peer or performance_review")
	rootCmd.PersistentFlags().String("focus", "", "Comma-separated focus areas (e.g. technical,leadership)")
	rootCmd.PersistentFlags().StringP("format", "f", string(contract.DefaultReportFormat), "Report format: markdown, json or slack")
	rootCmd.PersistentFlags().String("services", "", "Comma-separated services to collect from (defaults to github,linear,notion)")
	rootCmd.PersistentFlags().Bool("use-cache", true, "Serve fresh cached API data when available")
	rootCmd.PersistentFlags().Int("max-cache-age", 0, "Cache freshness window in hours (0 = default of 6)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("input", "", "Path to a JSON wins report produced by a previous analysis")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
