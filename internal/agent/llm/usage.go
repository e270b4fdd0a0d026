package llm

import (
	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
	"github.com/cloudwego/eino/schema"
)

// logUsage computes and logs the USD cost of one model call when token usage
// metadata is present.
func logUsage(conversationID, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("conversation_id", conversationID).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
