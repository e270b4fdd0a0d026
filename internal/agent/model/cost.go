package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M text tokens for one model.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Standard-tier Gemini text pricing. Audio and image tokens are billed
// differently and are not used by the booking agent.
var defaultPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns the pricing for a model name. Unknown models resolve
// to zero pricing so a new model never breaks usage logging.
func ResolvePricing(model string) Pricing {
	if p, ok := defaultPricing[model]; ok {
		return p
	}
	return Pricing{}
}

// ComputeCost converts token usage into USD amounts using per-1M pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
