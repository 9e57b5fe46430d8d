// Package report renders wins reports into their output formats.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"winsfinder/schema"
)

// ErrUnsupportedFormat is returned when rendering to an unknown format.
// It is never swallowed; callers decide how to surface it.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// audienceTitles selects the markdown report title per audience.
var audienceTitles = map[schema.Audience]string{
	schema.ManagerAudience:           "Weekly Accomplishments - Manager Report",
	schema.PeerAudience:              "Weekly Technical Contributions",
	schema.SelfAudience:              "Weekly Self-Reflection",
	schema.PerformanceReviewAudience: "Performance Review - Key Accomplishments",
}

// slackCategoryLimit caps how many categories appear in a Slack summary.
const slackCategoryLimit = 3

// Render formats a wins report. The JSON form round-trips: parsing it
// yields an equal report.
func Render(report *schema.WinsReport, format schema.ReportFormat) (string, error) {
	switch format {
	case schema.MarkdownFormat:
		return renderMarkdown(report), nil
	case schema.JSONFormat:
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode report: %w", err)
		}
		return string(out), nil
	case schema.SlackFormat:
		return renderSlack(report), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// impactMarker returns the emoji marker for an impact level.
func impactMarker(impact schema.Impact) string {
	switch impact {
	case schema.HighImpact:
		return "🔥"
	case schema.MediumImpact:
		return "📈"
	default:
		return "✅"
	}
}

// sortedCategoryKeys gives categories a stable render order.
func sortedCategoryKeys(categories map[string]schema.Category) []string {
	keys := make([]string, 0, len(categories))
	for key := range categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// categoryTitle falls back to a titled version of the map key.
func categoryTitle(key string, category schema.Category) string {
	if category.Title != "" {
		return category.Title
	}
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func renderMarkdown(report *schema.WinsReport) string {
	var lines []string

	title, ok := audienceTitles[report.Audience]
	if !ok {
		title = "Weekly Wins Report"
	}
	lines = append(lines, fmt.Sprintf("# %s", title), "")

	lines = append(lines, "## Summary")
	lines = append(lines, fmt.Sprintf("- **Total Activities**: %d", report.Summary.TotalActivities))
	if report.Summary.KeyInsight != "" {
		lines = append(lines, fmt.Sprintf("- **Key Insight**: %s", report.Summary.KeyInsight))
	}
	if report.Summary.CrossServiceImpact != "" {
		lines = append(lines, fmt.Sprintf("- **Cross-Service Impact**: %s", report.Summary.CrossServiceImpact))
	}
	lines = append(lines, "")

	if len(report.Categories) > 0 {
		lines = append(lines, "## Key Accomplishments")
		for _, key := range sortedCategoryKeys(report.Categories) {
			category := report.Categories[key]
			lines = append(lines, fmt.Sprintf("### %s %s", impactMarker(category.Impact), categoryTitle(key, category)))
			lines = append(lines, category.Description)
			if category.EvidenceCount > 0 {
				lines = append(lines, fmt.Sprintf("*Evidence: %d supporting activities*", category.EvidenceCount))
			}
			lines = append(lines, "")
		}
	}

	if len(report.TopWins) > 0 {
		lines = append(lines, "## Highlights")
		for _, win := range report.TopWins {
			lines = append(lines, fmt.Sprintf("- %s **%s**: %s", impactMarker(win.Impact), win.Title, win.Description))
		}
	}

	if len(report.Correlations) > 0 {
		lines = append(lines, "", "## Cross-Platform Connections")
		for _, correlation := range report.Correlations {
			lines = append(lines, fmt.Sprintf("- **%s** (confidence: %.0f%%)", correlation.Description, correlation.Confidence*100))
		}
	}

	return strings.Join(lines, "\n")
}

func renderSlack(report *schema.WinsReport) string {
	lines := []string{
		"🎉 *Weekly Wins Summary*",
		fmt.Sprintf("📊 %d activities across platforms", report.Summary.TotalActivities),
	}

	keys := sortedCategoryKeys(report.Categories)
	for i, key := range keys {
		if i >= slackCategoryLimit {
			break
		}
		category := report.Categories[key]
		marker := "📈"
		if category.Impact == schema.HighImpact {
			marker = "🔥"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", marker, categoryTitle(key, category), category.Description))
	}

	if len(keys) > slackCategoryLimit {
		lines = append(lines, fmt.Sprintf("...and %d more accomplishments", len(keys)-slackCategoryLimit))
	}

	return strings.Join(lines, "\n")
}
