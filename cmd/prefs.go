package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"winsfinder/internal/contract"
	"winsfinder/internal/winstore"
	"winsfinder/schema"
)

// prefsCmd manages stored user preferences.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored user preferences",
	Long: `Manage preferences that shape how reports are generated.

Preferences persist in the activity store and are merged into future
analyses. The well-known keys are:
  audience_preference - default report audience
  focus_areas         - comma-separated focus areas
  report_format       - default output format

Examples:
  # Show the current preferences
  winsfinder prefs show

  # Set the default audience
  winsfinder prefs set audience_preference=manager`,
}

// prefsSetCmd upserts one or more preferences.
var prefsSetCmd = &cobra.Command{
	Use:   "set key=value [key=value ...]",
	Short: "Set one or more preference values",
	Long: `Store preference values as key=value pairs.

Values are stored as strings, except focus_areas which accepts a
comma-separated list and is stored as a list.

Examples:
  # Set a single preference
  winsfinder prefs set report_format=slack

  # Set several at once
  winsfinder prefs set audience_preference=manager focus_areas=technical,leadership`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		store := winstore.Manager.GetActivityStore()
		if store == nil {
			contract.LogFatal("Activity store is not initialized", fmt.Errorf("store is nil"))
		}
		for _, arg := range args {
			key, rawValue, found := strings.Cut(arg, "=")
			if !found || key == "" {
				contract.LogFatal("Preferences must be key=value pairs", fmt.Errorf("invalid argument %q", arg))
			}
			var value any = rawValue
			if key == "focus_areas" {
				value = parseFocusList(rawValue)
			}
			if err := store.PutPreference(key, value); err != nil {
				contract.LogFatal("Failed to save preference", err)
			}
			fmt.Printf("Set %s\n", key)
		}
		fmt.Printf("Saved %d preferences.\n", len(args))
	},
}

// prefsShowCmd prints the current preferences.
var prefsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Display the current preferences",
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := winstore.Manager.GetActivityStore()
		if store == nil {
			contract.LogFatal("Activity store is not initialized", fmt.Errorf("store is nil"))
		}
		prefs := map[string]string{
			"audience_preference": contract.PreferenceString(store, "audience_preference", string(schema.SelfAudience)),
			"focus_areas":         strings.Join(contract.PreferenceStrings(store, "focus_areas", []string{}), ","),
			"report_format":       contract.PreferenceString(store, "report_format", string(schema.MarkdownFormat)),
		}
		keys := make([]string, 0, len(prefs))
		for key := range prefs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s: %s\n", key, prefs[key])
		}
	},
}

// parseFocusList splits a comma-separated focus list, dropping empty entries.
func parseFocusList(raw string) []string {
	parts := strings.Split(raw, ",")
	areas := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			areas = append(areas, trimmed)
		}
	}
	return areas
}
