package model

type IssueKind string

const (
	IssueError     IssueKind = "error"
	IssueNoResults IssueKind = "no_results"
	IssueMalformed IssueKind = "malformed"
)

type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityWarning  IssueSeverity = "warning"
)

// ValidationIssue describes one problem found in a run's accumulated results.
type ValidationIssue struct {
	Kind     IssueKind
	ToolID   string
	Message  string
	Severity IssueSeverity
}

// ValidationResult is the validator's verdict over the accumulated results of
// a run at a given adaptation turn.
type ValidationResult struct {
	Acceptable      bool
	NeedsAdaptation bool
	Issues          []ValidationIssue
	Feedback        string
	Suggestions     []string
}
