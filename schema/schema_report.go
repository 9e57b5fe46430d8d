package schema

// Category is one accomplishment grouping inside a wins report.
type Category struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Impact        Impact `json:"impact"`
	EvidenceCount int    `json:"evidence_count"`
}

// Correlation links events from two or more services. Correlations are
// derived data; they are persisted only through an explicit save.
type Correlation struct {
	Type        CorrelationType `json:"type"`
	Keyword     string          `json:"keyword,omitempty"`
	Confidence  float64         `json:"confidence"`
	Description string          `json:"description"`
	Activities  []ActivityEvent `json:"activities"`
}

// Win is one highlighted accomplishment surfaced by LLM analysis.
type Win struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      Impact   `json:"impact"`
	Evidence    []string `json:"evidence,omitempty"`
}

// ReportSummary holds the top-line numbers of a wins report. KeyInsight
// and CrossServiceImpact are only populated by LLM analysis.
type ReportSummary struct {
	TotalActivities          int      `json:"total_activities"`
	CrossServiceCorrelations int      `json:"cross_service_correlations"`
	ServicesUsed             []string `json:"services_used,omitempty"`
	KeyInsight               string   `json:"key_insight,omitempty"`
	CrossServiceImpact       string   `json:"cross_service_impact,omitempty"`
}

// WinsReport is the output of one analysis run. Reports are written once
// to the history log keyed by the Monday of the analyzed week and never
// updated in place.
type WinsReport struct {
	Summary      ReportSummary       `json:"summary"`
	Categories   map[string]Category `json:"categories"`
	Correlations []Correlation       `json:"correlations"`
	TopWins      []Win               `json:"top_wins,omitempty"`
	Audience     Audience            `json:"audience,omitempty"`
	FocusAreas   []string            `json:"focus_areas,omitempty"`
}
