package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
)

//go:embed template/planner_prompt.txt
var plannerSystemPrompt string

//go:embed template/adapt_prompt.txt
var adaptSystemPrompt string

// RenderPlannerSystem renders the initial-plan system prompt via the Eino
// prompt component, substituting the tool catalog and business identity.
func RenderPlannerSystem(ctx context.Context, config model.ResponsePromptConfig, toolCatalog string) (string, error) {
	return renderPlanning(ctx, plannerSystemPrompt, config, toolCatalog)
}

// RenderAdaptSystem renders the replanning system prompt.
func RenderAdaptSystem(ctx context.Context, config model.ResponsePromptConfig, toolCatalog string) (string, error) {
	return renderPlanning(ctx, adaptSystemPrompt, config, toolCatalog)
}

func renderPlanning(ctx context.Context, template string, config model.ResponsePromptConfig, toolCatalog string) (string, error) {
	// Safely render known tokens only to avoid interfering with JSON braces in template
	content := strings.NewReplacer(
		"{business_type}", config.BusinessType,
		"{business_name}", config.BusinessName,
		"{tool_catalog}", toolCatalog,
	).Replace(template)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("planner prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("planner prompt render: empty result")
	}
	return msgs[0].Content, nil
}
