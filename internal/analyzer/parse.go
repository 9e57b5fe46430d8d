package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"winsfinder/schema"
)

// ParseError indicates the LLM returned something other than a valid
// wins report. Callers fall back to the heuristic path; there is no
// half-parsed report with a raw-text escape hatch.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "invalid analysis response: " + e.Reason
}

// requiredReportKeys must all be present for a response to count as a report.
var requiredReportKeys = []string{"summary", "categories", "correlations"}

// parseReport decodes an LLM response into a wins report, validating the
// required top-level keys first. Audience and focus areas are stamped in
// from the request since the model does not echo them reliably.
func parseReport(content string, audience schema.Audience, focusAreas []string) (*schema.WinsReport, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return nil, &ParseError{Reason: "no JSON object found in response"}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &keys); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	for _, key := range requiredReportKeys {
		if _, ok := keys[key]; !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("missing required key: %s", key)}
		}
	}

	var report schema.WinsReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("response does not match report shape: %v", err)}
	}
	if report.Categories == nil {
		report.Categories = map[string]schema.Category{}
	}

	report.Audience = audience
	report.FocusAreas = focusAreas
	return &report, nil
}

// extractJSONObject returns the outermost {...} span of the content.
// Models often wrap JSON in prose or code fences.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}
