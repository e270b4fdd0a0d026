package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Registry holds the invokable booking tools and executes plan calls against
// them. Tool errors and timeouts become failure results, never raised errors,
// so one failing call can never abort its wave.
type Registry struct {
	timeout time.Duration
	tools   map[string]tool.InvokableTool
	infos   []*schema.ToolInfo
}

// NewRegistry indexes the given tools by name. Every tool must be invokable.
func NewRegistry(ctx context.Context, timeout time.Duration, baseTools ...tool.BaseTool) (*Registry, error) {
	r := &Registry{
		timeout: timeout,
		tools:   make(map[string]tool.InvokableTool, len(baseTools)),
	}
	for _, bt := range baseTools {
		info, err := bt.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		inv, ok := bt.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %q is not invokable", info.Name)
		}
		if _, dup := r.tools[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", info.Name)
		}
		r.tools[info.Name] = inv
		r.infos = append(r.infos, info)
	}
	return r, nil
}

// GetBookingTools returns the mock booking tool set.
func GetBookingTools() []tool.BaseTool {
	return []tool.BaseTool{
		createResolveDateTool(),
		createSearchRoomsTool(),
		createGetRoomDetailsTool(),
		createGetRoomRateTool(),
	}
}

// Infos exposes the tool schemas, e.g. for prompt construction.
func (r *Registry) Infos() []*schema.ToolInfo {
	return r.infos
}

// Catalog renders a compact tool listing for the planner prompt.
func (r *Registry) Catalog() string {
	var b strings.Builder
	for _, info := range r.infos {
		b.WriteString("- " + info.Name + ": " + info.Desc + "\n")
	}
	return b.String()
}

// Invoke runs one tool call under the registry timeout and records the
// outcome as data. Unknown tools, tool errors and deadline expiry all come
// back as failure results.
func (r *Registry) Invoke(ctx context.Context, call model.ToolCall) model.ToolResult {
	res := model.ToolResult{ToolID: call.ID, Tool: call.Tool}

	t, ok := r.tools[call.Tool]
	if !ok {
		logx.Warn().Str("tool", call.Tool).Str("id", call.ID).Msg("plan referenced unknown tool")
		res.Error = fmt.Sprintf("unknown tool: %s", call.Tool)
		return res
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		res.Error = fmt.Sprintf("marshal arguments: %v", err)
		return res
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := t.InvokableRun(runCtx, string(argsJSON))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			res.Error = fmt.Sprintf("%s timed out after %s", call.Tool, r.timeout)
		} else {
			res.Error = err.Error()
		}
		logx.Debug().Str("tool", call.Tool).Str("id", call.ID).Str("error", res.Error).Msg("tool call failed")
		return res
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		data = map[string]any{"content": out}
	}
	res.Data = data
	return res
}
