package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"winsfinder/schema"
)

// keywordStopwords excludes generic activity vocabulary from keyword
// clustering so that correlations key on project terms instead.
var keywordStopwords = map[string]struct{}{
	"pull":    {},
	"request": {},
	"issue":   {},
	"comment": {},
	"review":  {},
}

// minKeywordLength filters out short filler words before the stopword check.
const minKeywordLength = 5

// HeuristicAnalyze is the deterministic analysis path. The same bundles
// always yield the same report: all grouping iterates in sorted order.
func HeuristicAnalyze(bundles map[schema.Service]*schema.ActivityBundle, audience schema.Audience, focusAreas []string) *schema.WinsReport {
	events := flattenEvents(bundles)
	correlations := CorrelateActivities(events)

	report := &schema.WinsReport{
		Summary: schema.ReportSummary{
			TotalActivities:          len(events),
			CrossServiceCorrelations: len(correlations),
			ServicesUsed:             sortedServices(bundles),
		},
		Categories:   map[string]schema.Category{},
		Correlations: correlations,
		Audience:     audience,
		FocusAreas:   focusAreas,
	}

	counts := make(map[schema.ActivityType]int)
	for _, event := range events {
		counts[event.Type]++
	}

	if n := counts[schema.PullRequestActivity]; n > 0 {
		impact := schema.MediumImpact
		if n > schema.HighImpactPRThreshold {
			impact = schema.HighImpact
		}
		report.Categories["technical_contribution"] = schema.Category{
			Title:         "Code Contributions",
			Description:   fmt.Sprintf("Created %d pull requests", n),
			Impact:        impact,
			EvidenceCount: n,
		}
	}

	if n := counts[schema.ReviewActivity]; n > 0 {
		impact := schema.MediumImpact
		if n > schema.HighImpactReviewThreshold {
			impact = schema.HighImpact
		}
		report.Categories["collaboration"] = schema.Category{
			Title:         "Code Review & Collaboration",
			Description:   fmt.Sprintf("Provided %d code reviews", n),
			Impact:        impact,
			EvidenceCount: n,
		}
	}

	if n := counts[schema.CommitActivity]; n > 0 {
		report.Categories["development_velocity"] = schema.Category{
			Title:         "Development Activity",
			Description:   fmt.Sprintf("Made %d commits", n),
			Impact:        schema.MediumImpact,
			EvidenceCount: n,
		}
	}

	return report
}

// CorrelateActivities finds cross-service correlations in a flat event
// list, first by shared calendar day, then by shared title keywords.
func CorrelateActivities(events []schema.ActivityEvent) []schema.Correlation {
	var correlations []schema.Correlation
	correlations = append(correlations, temporalCorrelations(events)...)
	correlations = append(correlations, keywordCorrelations(events)...)
	return correlations
}

// temporalCorrelations groups events by UTC calendar day. A day with at
// least two events spanning at least two services yields one correlation.
// Events whose timestamps do not parse are skipped, not errors.
func temporalCorrelations(events []schema.ActivityEvent) []schema.Correlation {
	byDay := make(map[string][]schema.ActivityEvent)
	for _, event := range events {
		if day, ok := event.Day(); ok {
			byDay[day] = append(byDay[day], event)
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var correlations []schema.Correlation
	for _, day := range days {
		group := byDay[day]
		if len(group) < 2 {
			continue
		}
		services := distinctServices(group)
		if len(services) < 2 {
			continue
		}
		correlations = append(correlations, schema.Correlation{
			Type:        schema.TemporalCorrelation,
			Confidence:  schema.TemporalConfidence,
			Description: fmt.Sprintf("Cross-service activity across %s", strings.Join(services, ", ")),
			Activities:  group,
		})
	}
	return correlations
}

// keywordCorrelations groups events by shared title tokens. A token held
// by at least two events spanning at least two services yields one
// correlation per token.
func keywordCorrelations(events []schema.ActivityEvent) []schema.Correlation {
	byToken := make(map[string][]schema.ActivityEvent)
	for _, event := range events {
		seen := make(map[string]struct{})
		for _, word := range strings.Fields(strings.ToLower(event.Title)) {
			if len(word) < minKeywordLength {
				continue
			}
			if _, stop := keywordStopwords[word]; stop {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			byToken[word] = append(byToken[word], event)
		}
	}

	tokens := make([]string, 0, len(byToken))
	for token := range byToken {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	var correlations []schema.Correlation
	for _, token := range tokens {
		group := byToken[token]
		if len(group) < 2 {
			continue
		}
		services := distinctServices(group)
		if len(services) < 2 {
			continue
		}
		correlations = append(correlations, schema.Correlation{
			Type:        schema.KeywordCorrelation,
			Keyword:     token,
			Confidence:  schema.KeywordConfidence,
			Description: fmt.Sprintf("Activities related to '%s' across %s", token, strings.Join(services, ", ")),
			Activities:  group,
		})
	}
	return correlations
}

// flattenEvents merges all bundle events into one list in sorted service
// order, tagging each event with its source service.
func flattenEvents(bundles map[schema.Service]*schema.ActivityBundle) []schema.ActivityEvent {
	var events []schema.ActivityEvent
	for _, service := range sortedServiceKeys(bundles) {
		bundle := bundles[service]
		if bundle == nil {
			continue
		}
		for _, event := range bundle.Activities {
			if event.Service == "" {
				event.Service = service
			}
			events = append(events, event)
		}
	}
	return events
}

// distinctServices returns the sorted distinct service names in a group.
func distinctServices(events []schema.ActivityEvent) []string {
	seen := make(map[string]struct{})
	for _, event := range events {
		seen[string(event.Service)] = struct{}{}
	}
	services := make([]string, 0, len(seen))
	for service := range seen {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}

func sortedServiceKeys(bundles map[schema.Service]*schema.ActivityBundle) []schema.Service {
	keys := make([]schema.Service, 0, len(bundles))
	for service := range bundles {
		keys = append(keys, service)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedServices(bundles map[schema.Service]*schema.ActivityBundle) []string {
	keys := sortedServiceKeys(bundles)
	out := make([]string, 0, len(keys))
	for _, service := range keys {
		out = append(out, string(service))
	}
	return out
}
