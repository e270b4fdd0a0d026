package run

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// Validator inspects a run's accumulated results and decides whether another
// adaptation turn is warranted. It is run-scoped: the per-issue retry counters
// must not leak across runs.
type Validator struct {
	maxIssueRetries int
	retries         map[string]int
}

func NewValidator(maxIssueRetries int) *Validator {
	if maxIssueRetries <= 0 {
		maxIssueRetries = 1
	}
	return &Validator{
		maxIssueRetries: maxIssueRetries,
		retries:         make(map[string]int),
	}
}

// Validate scans the accumulated results at the given adaptation turn. Once
// the turn budget is spent, whatever exists is final: the result is forced
// acceptable and adaptation stops regardless of content.
func (v *Validator) Validate(plan *model.Plan, results map[string]model.ToolResult, turn, maxTurns int) model.ValidationResult {
	if turn >= maxTurns {
		logx.Debug().Int("turn", turn).Int("max_turns", maxTurns).Msg("adaptation budget spent, accepting results as-is")
		return model.ValidationResult{Acceptable: true, NeedsAdaptation: false}
	}

	issues := v.rateLimit(scanResults(results))

	res := model.ValidationResult{
		Acceptable:      len(issues) == 0,
		NeedsAdaptation: len(issues) > 0,
		Issues:          issues,
	}
	if len(issues) == 0 {
		return res
	}

	var feedback strings.Builder
	for _, issue := range issues {
		feedback.WriteString(issue.Message)
		feedback.WriteString("\n")
		res.Suggestions = append(res.Suggestions, suggestionsFor(issue, plan)...)
	}
	res.Feedback = strings.TrimRight(feedback.String(), "\n")
	return res
}

// scanResults finds failure payloads, empty search results and date results
// missing their required temporal fields. Iteration is sorted for
// deterministic feedback ordering.
func scanResults(results map[string]model.ToolResult) []model.ValidationIssue {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var issues []model.ValidationIssue
	for _, id := range ids {
		r := results[id]
		if r.Failed() {
			issues = append(issues, model.ValidationIssue{
				Kind:     model.IssueError,
				ToolID:   id,
				Message:  fmt.Sprintf("%s (%s) failed: %s", r.Tool, id, r.Error),
				Severity: model.SeverityCritical,
			})
			continue
		}
		switch r.Tool {
		case model.ToolSearchRooms:
			if emptyRooms(r.Data) {
				issues = append(issues, model.ValidationIssue{
					Kind:     model.IssueNoResults,
					ToolID:   id,
					Message:  fmt.Sprintf("%s (%s) returned no available rooms", r.Tool, id),
					Severity: model.SeverityWarning,
				})
			}
		case model.ToolResolveDate:
			if missingDateFields(r.Data) {
				issues = append(issues, model.ValidationIssue{
					Kind:     model.IssueMalformed,
					ToolID:   id,
					Message:  fmt.Sprintf("%s (%s) is missing check_in/check_out", r.Tool, id),
					Severity: model.SeverityCritical,
				})
			}
		}
	}
	return issues
}

// rateLimit drops issues whose class already spent its retry budget. The key
// is issue kind plus tool category, never the individual call, which prevents
// oscillating between the same two failing strategies.
func (v *Validator) rateLimit(issues []model.ValidationIssue) []model.ValidationIssue {
	var kept []model.ValidationIssue
	for _, issue := range issues {
		key := string(issue.Kind) + ":" + categoryOfIssue(issue)
		if v.retries[key] >= v.maxIssueRetries {
			logx.Debug().Str("issue_key", key).Msg("issue class over retry budget, dropping")
			continue
		}
		v.retries[key]++
		kept = append(kept, issue)
	}
	return kept
}

func categoryOfIssue(issue model.ValidationIssue) string {
	// The message always starts with the tool name; ToolID alone is not a
	// stable key across replans.
	tool, _, _ := strings.Cut(issue.Message, " ")
	return model.CategoryOf(tool)
}

func suggestionsFor(issue model.ValidationIssue, plan *model.Plan) []string {
	switch issue.Kind {
	case model.IssueNoResults:
		s := []string{"try an adjacent date range"}
		if in, out, ok := requestedStay(plan); ok {
			s = append(s, fmt.Sprintf("requested stay was %s to %s; try shifting by a day or two", in, out))
		}
		return s
	case model.IssueMalformed:
		return []string{"re-resolve the dates using explicit YYYY-MM-DD values"}
	default:
		return []string{"retry the failed tool with adjusted arguments or a longer timeout"}
	}
}

// requestedStay recovers the originally requested date range from the plan's
// search arguments, when present.
func requestedStay(plan *model.Plan) (checkIn, checkOut string, ok bool) {
	if plan == nil {
		return "", "", false
	}
	for _, call := range plan.Calls {
		if call.Tool != model.ToolSearchRooms {
			continue
		}
		in, _ := call.Arguments["check_in"].(string)
		out, _ := call.Arguments["check_out"].(string)
		if in != "" && out != "" {
			return in, out, true
		}
	}
	return "", "", false
}

func emptyRooms(data map[string]any) bool {
	rooms, ok := data["available_rooms"]
	if !ok {
		return true
	}
	list, ok := rooms.([]any)
	if ok {
		return len(list) == 0
	}
	// Typed slices show up when results never crossed a JSON boundary.
	if typed, ok := rooms.([]model.Room); ok {
		return len(typed) == 0
	}
	return false
}

func missingDateFields(data map[string]any) bool {
	in, _ := data["check_in"].(string)
	out, _ := data["check_out"].(string)
	return in == "" || out == ""
}
