package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/conversations"
	"github.com/Bookline-core-poc-v1/server/internal/agent/llm/prompts"
	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/run"
	"github.com/cloudwego/eino/schema"
)

// GeminiResponder implements run.Responder: it turns the accumulated tool
// results plus conversation history into the final guest-facing reply.
type GeminiResponder struct {
	models    *ChatModels
	msgs      *conversations.MessagesManager
	promptCfg model.ResponsePromptConfig
}

// NewGeminiResponder creates a responder. msgs may be nil, in which case the
// reply is generated from the current message alone.
func NewGeminiResponder(models *ChatModels, msgs *conversations.MessagesManager, promptCfg model.ResponsePromptConfig) *GeminiResponder {
	return &GeminiResponder{
		models:    models,
		msgs:      msgs,
		promptCfg: promptCfg,
	}
}

func (r *GeminiResponder) Generate(ctx context.Context, userID, userMessage string, results map[string]model.ToolResult) (string, error) {
	system, err := prompts.RenderResponseSystem(ctx, r.promptCfg)
	if err != nil {
		return "", err
	}

	var messages []*schema.Message
	if r.msgs != nil {
		messages, err = r.msgs.BuildResponseContext(ctx, userID, system)
		if err != nil {
			return "", err
		}
	} else {
		messages = []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(userMessage),
		}
	}
	messages = append(messages, schema.SystemMessage(renderResults(results)))

	out, err := r.models.Response.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("responder generate: %w", err)
	}
	logUsage(userID, r.models.ResponseModelName, out)

	if out == nil {
		return "", fmt.Errorf("responder returned no message")
	}
	return out.Content, nil
}

// renderResults serializes the run's results in stable id order for the model.
func renderResults(results map[string]model.ToolResult) string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("<tool_results>\n")
	for _, id := range ids {
		entry, err := json.Marshal(results[id])
		if err != nil {
			continue
		}
		b.Write(entry)
		b.WriteString("\n")
	}
	b.WriteString("</tool_results>")
	return b.String()
}

var _ run.Responder = (*GeminiResponder)(nil)
