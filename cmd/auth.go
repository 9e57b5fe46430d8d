package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// authCmd verifies credentials for every service.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Test authentication for all configured services",
	Long: `Check each service credential from the environment and probe the API when one is set.

Checks GITHUB_TOKEN, LINEAR_API_KEY, NOTION_API_KEY, OPENROUTER_API_KEY
and SLACK_WEBHOOK_URL. Missing credentials are warnings, not failures:
services without credentials are simply skipped during collection.

Examples:
  # Verify everything is wired up before the first analysis
  winsfinder auth`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checks := []struct {
			label   string
			service schema.Service
			envVar  string
		}{
			{"GitHub", schema.GitHubService, contract.EnvGitHubToken},
			{"Linear", schema.LinearService, contract.EnvLinearAPIKey},
			{"Notion", schema.NotionService, contract.EnvNotionAPIKey},
		}

		for _, check := range checks {
			if os.Getenv(check.envVar) == "" {
				fmt.Printf("- %s: no %s environment variable\n", check.label, check.envVar)
				continue
			}
			adapter := app.Adapters[check.service]
			if adapter != nil && adapter.TestConnection(rootCtx) {
				_, _ = contract.OKColor.Printf("✓ %s: connected\n", check.label)
			} else {
				_, _ = contract.FailColor.Printf("✗ %s: connection failed\n", check.label)
			}
		}

		if os.Getenv(contract.EnvOpenRouterAPIKey) != "" {
			_, _ = contract.OKColor.Println("✓ OpenRouter: API key found")
		} else {
			fmt.Printf("- OpenRouter: no %s environment variable (heuristic analysis only)\n", contract.EnvOpenRouterAPIKey)
		}

		if os.Getenv(contract.EnvSlackWebhookURL) != "" {
			_, _ = contract.OKColor.Println("✓ Slack: webhook URL found")
		} else {
			fmt.Printf("- Slack: no %s environment variable\n", contract.EnvSlackWebhookURL)
		}
	},
}
