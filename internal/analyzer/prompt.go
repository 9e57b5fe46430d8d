package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"winsfinder/schema"
)

// analysisSystemPrompt frames the LLM's role for every analysis call.
const analysisSystemPrompt = "You are an expert at analyzing developer work activity to identify meaningful accomplishments and wins. Focus on impact, collaboration, and growth."

// Size bounds keep the prompt inside a predictable token budget.
const (
	maxPromptActivities  = 15
	maxPromptTitleLength = 100
	maxPromptLabels      = 3
)

// audienceContext tailors the analysis framing per target audience.
var audienceContext = map[schema.Audience]string{
	schema.ManagerAudience:           "Focus on business impact, team contributions, measurable outcomes, and leadership qualities",
	schema.PeerAudience:              "Emphasize technical depth, collaboration, knowledge sharing, and innovation",
	schema.SelfAudience:              "Include learning opportunities, growth areas, personal development, and skill building",
	schema.PerformanceReviewAudience: "Highlight achievements, quantifiable metrics, career progression, and strategic contributions",
}

// promptActivity is the size-bounded projection of one event for the prompt.
type promptActivity struct {
	Type      schema.ActivityType `json:"type"`
	Title     string              `json:"title"`
	CreatedAt string              `json:"created_at"`
	URL       string              `json:"url,omitempty"`
	Repo      string              `json:"repo,omitempty"`
	Labels    []string            `json:"labels,omitempty"`
}

// promptService summarizes one service's bundle for the prompt.
type promptService struct {
	ActivityCount int              `json:"activity_count"`
	SummaryStats  map[string]any   `json:"summary_stats,omitempty"`
	Activities    []promptActivity `json:"activities"`
}

// activitySummary is the complete size-bounded prompt payload.
type activitySummary struct {
	Services        map[string]promptService `json:"services"`
	TotalActivities int                      `json:"total_activities"`
	TimeRange       string                   `json:"time_range,omitempty"`
}

// prepareActivitySummary projects bundles into the bounded prompt payload:
// at most 15 activities per service, 100-character titles, 3 labels each.
func prepareActivitySummary(bundles map[schema.Service]*schema.ActivityBundle) *activitySummary {
	summary := &activitySummary{Services: make(map[string]promptService)}

	var earliest, latest time.Time
	for service, bundle := range bundles {
		if bundle == nil {
			continue
		}

		for _, event := range bundle.Activities {
			ts, err := schema.ParseEventTime(event.CreatedAt)
			if err != nil {
				continue
			}
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
			if latest.IsZero() || ts.After(latest) {
				latest = ts
			}
		}

		svc := promptService{
			ActivityCount: len(bundle.Activities),
			SummaryStats:  bundle.Summary,
		}
		for _, event := range bundle.Activities {
			if len(svc.Activities) >= maxPromptActivities {
				break
			}
			title := event.Title
			if len(title) > maxPromptTitleLength {
				title = title[:maxPromptTitleLength]
			}
			labels := event.Labels
			if len(labels) > maxPromptLabels {
				labels = labels[:maxPromptLabels]
			}
			svc.Activities = append(svc.Activities, promptActivity{
				Type:      event.Type,
				Title:     title,
				CreatedAt: event.CreatedAt,
				URL:       event.URL,
				Repo:      event.Repo,
				Labels:    labels,
			})
		}
		summary.Services[string(service)] = svc
		summary.TotalActivities += len(bundle.Activities)
	}

	if !earliest.IsZero() {
		summary.TimeRange = fmt.Sprintf("%s to %s", earliest.Format("2006-01-02"), latest.Format("2006-01-02"))
	}
	return summary
}

// buildWinsPrompt renders the full analysis prompt, instructing the model
// to return JSON in the wins-report shape.
func buildWinsPrompt(summary *activitySummary, audience schema.Audience, focusAreas []string) string {
	payload, _ := json.MarshalIndent(summary, "", "  ")

	timeRange := summary.TimeRange
	if timeRange == "" {
		timeRange = "Recent activity"
	}

	focusContext := ""
	if len(focusAreas) > 0 {
		focusContext = fmt.Sprintf("\nPay special attention to these areas: %s", strings.Join(focusAreas, ", "))
	}

	services := make([]string, 0, len(summary.Services))
	for service := range summary.Services {
		services = append(services, fmt.Sprintf("%q", service))
	}
	sort.Strings(services)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze developer work activity to identify meaningful accomplishments, cross-platform correlations, and wins.\n\n")
	fmt.Fprintf(&b, "ACTIVITY DATA (Time range: %s):\n%s\n\n", timeRange, payload)
	fmt.Fprintf(&b, "ANALYSIS CONTEXT:\n")
	fmt.Fprintf(&b, "- Target Audience: %s\n", audience)
	fmt.Fprintf(&b, "- Audience Focus: %s%s\n\n", audienceContext[audience], focusContext)
	b.WriteString(`INSTRUCTIONS:
1. Find correlations: look for related activities across different services, such as feature delivery (PR + issue + documentation), bug resolution, technical leadership, or knowledge sharing.
2. Analyze impact: determine the significance and business value of activities.
3. Categorize wins: group activities into meaningful accomplishment categories.

Return ONLY a JSON object with this structure:
{
    "summary": {
        "total_activities": ` + fmt.Sprintf("%d", summary.TotalActivities) + `,
        "services_used": [` + strings.Join(services, ", ") + `],
        "key_insight": "One sentence summarizing the most significant pattern or achievement",
        "cross_service_correlations": 0
    },
    "correlations": [
        {
            "type": "temporal_correlation|keyword_correlation",
            "keyword": "optional shared keyword",
            "confidence": 0.0,
            "description": "What this correlation represents",
            "activities": [
                {"service": "github|linear|notion", "type": "activity type", "title": "activity title", "url": "activity URL"}
            ]
        }
    ],
    "categories": {
        "technical_contribution": {
            "title": "Category title",
            "description": "What was accomplished in this area",
            "impact": "high|medium|low",
            "evidence_count": 0
        }
    },
    "top_wins": [
        {
            "title": "Specific win title",
            "description": "Detailed description of the accomplishment",
            "impact": "high|medium|low",
            "evidence": ["Specific supporting activities with URLs"]
        }
    ]
}

Focus on meaningful impact and genuine correlations. Look for patterns that show growth, collaboration, and business value beyond just counting activities.`)

	return b.String()
}
