package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"winsfinder/internal/contract"
)

// collectCmd fetches activity without analyzing it.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect activity data from services and report counts",
	Long: `Fetch activity from the configured services for the requested timeframe.

Fetched bundles are written to the activity store so a following analyze
run can serve them from cache. Each service is collected independently;
one failing service never aborts the others.

Examples:
  # Collect last week's activity from all services
  winsfinder collect

  # Collect only GitHub, bypassing the cache
  winsfinder collect --services github --use-cache=false`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		bundles, errs := app.CollectActivity(rootCtx, cfg.Services, cfg.StartTime, cfg.EndTime, cfg.UseCache)

		fmt.Println("Activity data collection results:")
		for _, service := range cfg.Services {
			if err := errs[service]; err != nil {
				_, _ = contract.FailColor.Printf("✗ %s: %v\n", service, err)
				continue
			}
			bundle := bundles[service]
			cacheIndicator := ""
			if bundle.FromCache {
				cacheIndicator = " (cached)"
			}
			_, _ = contract.OKColor.Printf("✓ %s: %d activities%s\n", service, len(bundle.Activities), cacheIndicator)
		}
		return nil
	},
}
