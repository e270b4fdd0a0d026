package run

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// Planner is the external reasoning collaborator. Plan produces the initial
// tool plan for a user message; Adapt produces a revised plan from a stalled
// run's context bundle. Both may return an empty plan, which is a meaningful
// signal, not an error.
type Planner interface {
	Plan(ctx context.Context, userMessage, conversationContext string) (*model.Plan, error)
	Adapt(ctx context.Context, req *AdaptRequest) (*model.Plan, error)
}

// AdaptRequest is the replanning context handed to the reasoning collaborator.
type AdaptRequest struct {
	UserMessage         string
	Action              string
	ExecutedSummary     []string
	Feedback            string
	Suggestions         []string
	AttemptedSignatures []string
}

// Bundle renders the request as the text block the planner prompt embeds.
func (r *AdaptRequest) Bundle() string {
	var b strings.Builder
	b.WriteString("Original request: " + r.UserMessage + "\n")
	if r.Action != "" {
		b.WriteString("Previous plan action: " + r.Action + "\n")
	}
	b.WriteString("Tools already executed:\n")
	for _, line := range r.ExecutedSummary {
		b.WriteString("  - " + line + "\n")
	}
	if r.Feedback != "" {
		b.WriteString("Validation feedback:\n" + r.Feedback + "\n")
	}
	for _, s := range r.Suggestions {
		b.WriteString("Suggestion: " + s + "\n")
	}
	b.WriteString("Already attempted calls (the new plan MUST NOT reissue any of these):\n")
	for _, sig := range r.AttemptedSignatures {
		b.WriteString("  - " + sig + "\n")
	}
	return b.String()
}

// Adapter owns the core's share of replanning: context construction before
// the collaborator call, and post-hoc filtering after it.
type Adapter struct {
	planner       Planner
	maxTotalCalls int
}

func NewAdapter(planner Planner, maxTotalCalls int) *Adapter {
	return &Adapter{planner: planner, maxTotalCalls: maxTotalCalls}
}

// Adapt builds the replanning context, delegates to the planner, then drops
// any returned call whose signature was already attempted and truncates the
// plan so the run's total call count stays under the configured ceiling.
// Call ids colliding with already-recorded results are renamed so earlier
// results are never overwritten.
func (a *Adapter) Adapt(
	ctx context.Context,
	userMessage string,
	plan *model.Plan,
	results map[string]model.ToolResult,
	validation model.ValidationResult,
	attempted map[string]struct{},
	issued int,
	turn int,
) (*model.Plan, error) {
	req := &AdaptRequest{
		UserMessage:         userMessage,
		Action:              plan.Action,
		ExecutedSummary:     summarizeResults(results),
		Feedback:            validation.Feedback,
		Suggestions:         validation.Suggestions,
		AttemptedSignatures: sortedSignatures(attempted),
	}

	next, err := a.planner.Adapt(ctx, req)
	if err != nil {
		return nil, err
	}
	if next.IsEmpty() {
		return &model.Plan{Action: "no_further_adaptation"}, nil
	}

	budget := a.maxTotalCalls - issued
	filtered := &model.Plan{Action: next.Action}
	seen := make(map[string]struct{})
	rename := make(map[string]string)

	for _, call := range next.Calls {
		sig := CallSignature(call)
		if _, dup := attempted[sig]; dup {
			logx.Debug().Str("tool", call.Tool).Str("id", call.ID).Msg("dropping replanned call already attempted")
			continue
		}
		if _, dup := seen[sig]; dup {
			continue
		}
		if len(filtered.Calls) >= budget {
			logx.Warn().Int("budget", a.maxTotalCalls).Msg("replanned calls truncated at total tool ceiling")
			break
		}
		seen[sig] = struct{}{}

		if _, taken := results[call.ID]; taken {
			fresh := fmt.Sprintf("%s_t%d", call.ID, turn+1)
			rename[call.ID] = fresh
			call.ID = fresh
		}
		filtered.Calls = append(filtered.Calls, call)
	}

	// Re-point dependencies at renamed ids.
	for i, call := range filtered.Calls {
		for j, dep := range call.DependsOn {
			if fresh, ok := rename[dep]; ok {
				filtered.Calls[i].DependsOn[j] = fresh
			}
		}
	}

	return filtered, nil
}

// summarizeResults produces one line per executed call for the replanning
// context, in stable id order.
func summarizeResults(results map[string]model.ToolResult) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		r := results[id]
		switch {
		case r.Failed():
			lines = append(lines, fmt.Sprintf("%s (%s): failed: %s", r.Tool, id, r.Error))
		case r.Tool == model.ToolSearchRooms:
			lines = append(lines, fmt.Sprintf("%s (%s): %d rooms found", r.Tool, id, roomCount(r.Data)))
		default:
			lines = append(lines, fmt.Sprintf("%s (%s): ok", r.Tool, id))
		}
	}
	return lines
}

func roomCount(data map[string]any) int {
	switch rooms := data["available_rooms"].(type) {
	case []any:
		return len(rooms)
	case []model.Room:
		return len(rooms)
	default:
		return 0
	}
}

func sortedSignatures(attempted map[string]struct{}) []string {
	sigs := make([]string, 0, len(attempted))
	for sig := range attempted {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)
	return sigs
}
