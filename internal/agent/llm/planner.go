package llm

import (
	"context"
	"fmt"

	"github.com/Bookline-core-poc-v1/server/internal/agent/llm/parsers"
	"github.com/Bookline-core-poc-v1/server/internal/agent/llm/prompts"
	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/run"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
	"github.com/cloudwego/eino/schema"
)

// GeminiPlanner implements run.Planner on top of the Gemini planning model.
// Its only responsibilities are prompt assembly and response parsing; the
// dedup filtering of replanned calls stays in the orchestration core.
type GeminiPlanner struct {
	models      *ChatModels
	promptCfg   model.ResponsePromptConfig
	toolCatalog string
}

func NewGeminiPlanner(models *ChatModels, promptCfg model.ResponsePromptConfig, toolCatalog string) *GeminiPlanner {
	return &GeminiPlanner{
		models:      models,
		promptCfg:   promptCfg,
		toolCatalog: toolCatalog,
	}
}

func (p *GeminiPlanner) Plan(ctx context.Context, userMessage, conversationContext string) (*model.Plan, error) {
	system, err := prompts.RenderPlannerSystem(ctx, p.promptCfg, p.toolCatalog)
	if err != nil {
		return nil, err
	}

	userContent := conversationContext
	if userContent == "" {
		userContent = userMessage
	}

	out, err := p.models.Planner.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(userContent),
	})
	if err != nil {
		return nil, fmt.Errorf("planner generate: %w", err)
	}
	logUsage(userMessage, p.models.PlannerModelName, out)

	plan, err := parsers.ParsePlanResponse(out.Content)
	if err != nil {
		return nil, err
	}
	logx.Debug().Str("action", plan.Action).Int("calls", len(plan.Calls)).Msg("planner produced plan")
	return plan, nil
}

func (p *GeminiPlanner) Adapt(ctx context.Context, req *run.AdaptRequest) (*model.Plan, error) {
	system, err := prompts.RenderAdaptSystem(ctx, p.promptCfg, p.toolCatalog)
	if err != nil {
		return nil, err
	}

	out, err := p.models.Planner.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(req.Bundle()),
	})
	if err != nil {
		return nil, fmt.Errorf("planner adapt generate: %w", err)
	}
	logUsage(req.UserMessage, p.models.PlannerModelName, out)

	return parsers.ParsePlanResponse(out.Content)
}

var _ run.Planner = (*GeminiPlanner)(nil)
