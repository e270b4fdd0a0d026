package parsers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	errx "github.com/Bookline-core-poc-v1/server/internal/core/error"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxPlanCalls  = 20        // maximum tool calls accepted from one response
)

var plog = logx.With("plan_parser")

type wireCall struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	DependsOn []string       `json:"depends_on"`
}

type wirePlan struct {
	Action    string     `json:"action"`
	ToolCalls []wireCall `json:"tool_calls"`
}

// ParsePlanResponse extracts a tool plan from a planner model response. The
// model is instructed to emit a single JSON object, but responses arrive
// wrapped in code fences, prefixed with prose, or with ids and dependencies
// missing, so everything here is best-effort normalization. A response with
// no JSON object at all is a valid empty plan (the model decided no tools are
// needed).
func ParsePlanResponse(content string) (plan *model.Plan, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			plog.Error().Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("plan parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			plan = nil
		}
	}()

	if len(content) > maxContentLen {
		plog.Warn().
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return &model.Plan{Action: "respond"}, nil
	}

	var wire wirePlan
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("plan response is not valid JSON: %w", err)
	}

	if len(wire.ToolCalls) > maxPlanCalls {
		plog.Warn().
			Int("max_calls", maxPlanCalls).
			Int("returned", len(wire.ToolCalls)).
			Msg("plan capped")
		wire.ToolCalls = wire.ToolCalls[:maxPlanCalls]
	}

	plan = &model.Plan{Action: strings.TrimSpace(wire.Action)}
	seenIDs := make(map[string]struct{}, len(wire.ToolCalls))
	for i, wc := range wire.ToolCalls {
		tool := strings.TrimSpace(wc.Tool)
		if tool == "" {
			plog.Warn().Int("index", i).Msg("dropping call without tool name")
			continue
		}

		id := strings.TrimSpace(wc.ID)
		if id == "" {
			id = fmt.Sprintf("call_%d", i+1)
		}
		for {
			if _, dup := seenIDs[id]; !dup {
				break
			}
			id = id + "_x"
		}
		seenIDs[id] = struct{}{}

		args := wc.Arguments
		if args == nil {
			args = map[string]any{}
		}

		plan.Calls = append(plan.Calls, model.ToolCall{
			ID:        id,
			Tool:      tool,
			Arguments: args,
			DependsOn: cleanDeps(wc.DependsOn),
		})
	}

	// Drop dependency references the plan does not define; the scheduler
	// would reject the whole plan otherwise, and a hallucinated dep id should
	// not kill the run.
	for i, call := range plan.Calls {
		kept := call.DependsOn[:0]
		for _, dep := range call.DependsOn {
			if _, ok := seenIDs[dep]; ok {
				kept = append(kept, dep)
			} else {
				plog.Warn().
					Str("call", call.ID).
					Str("dep", dep).
					Msg("dropping unknown dependency id")
			}
		}
		plan.Calls[i].DependsOn = kept
	}

	return plan, nil
}

// extractJSONObject returns the outermost {...} block of the content, after
// stripping markdown code fences. Empty when no object is present.
func extractJSONObject(content string) string {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func cleanDeps(deps []string) []string {
	var out []string
	for _, d := range deps {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
