package schema

// Custom string types for type safety.
type (
	// Service represents an external activity source.
	Service string

	// ActivityType represents the kind of work unit observed on a service.
	ActivityType string

	// ReportFormat represents the rendering format of a wins report.
	ReportFormat string

	// Audience represents the target audience of a wins report.
	Audience string

	// Impact represents the significance level of a category or win.
	Impact string

	// CorrelationType represents how a cross-service correlation was discovered.
	CorrelationType string

	// DatabaseBackend represents the database backend for the activity store.
	DatabaseBackend string
)

// All services supported.
const (
	GitHubService Service = "github"
	LinearService Service = "linear"
	NotionService Service = "notion"
	SlackService  Service = "slack"
)

// Activity types recognized by the heuristic analyzer. Adapters may emit
// other type tags; unrecognized ones still count toward totals.
const (
	PullRequestActivity  ActivityType = "pull_request"
	CommitActivity       ActivityType = "commit"
	ReviewActivity       ActivityType = "review"
	IssueCommentActivity ActivityType = "issue_comment"
	IssueActivity        ActivityType = "issue"
)

// All report formats supported.
const (
	MarkdownFormat ReportFormat = "markdown" // default
	JSONFormat     ReportFormat = "json"
	SlackFormat    ReportFormat = "slack"
)

// All audiences supported.
const (
	SelfAudience              Audience = "self" // default
	ManagerAudience           Audience = "manager"
	PeerAudience              Audience = "peer"
	PerformanceReviewAudience Audience = "performance_review"
)

// All impact levels supported.
const (
	HighImpact   Impact = "high"
	MediumImpact Impact = "medium"
	LowImpact    Impact = "low"
)

// All correlation types emitted by the heuristic analyzer.
const (
	TemporalCorrelation CorrelationType = "temporal"
	KeywordCorrelation  CorrelationType = "keyword"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllServices returns a list of all supported services.
var AllServices = []Service{GitHubService, LinearService, NotionService, SlackService}

// CollectableServices are the services queried by default for analysis.
var CollectableServices = []Service{GitHubService, LinearService, NotionService}

// ValidReportFormats lists all valid report formats.
var ValidReportFormats = map[ReportFormat]struct{}{
	MarkdownFormat: {},
	JSONFormat:     {},
	SlackFormat:    {},
}

// ValidAudiences lists all valid audiences.
var ValidAudiences = map[Audience]struct{}{
	SelfAudience:              {},
	ManagerAudience:           {},
	PeerAudience:              {},
	PerformanceReviewAudience: {},
}

// ValidServices lists all valid services.
var ValidServices = map[Service]struct{}{
	GitHubService: {},
	LinearService: {},
	NotionService: {},
	SlackService:  {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Fixed analyzer constants. Tunable, preserved as-is for behavioral parity
// with prior report generations.
const (
	// TemporalConfidence is the confidence assigned to same-day cross-service clusters.
	TemporalConfidence = 0.6

	// KeywordConfidence is the confidence assigned to shared-keyword clusters.
	KeywordConfidence = 0.7

	// HighImpactPRThreshold is the pull request count above which the
	// technical contribution category is rated high impact.
	HighImpactPRThreshold = 3

	// HighImpactReviewThreshold is the review count above which the
	// collaboration category is rated high impact.
	HighImpactReviewThreshold = 5
)
