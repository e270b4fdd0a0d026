package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	Context struct {
		MaxTurns int `envconfig:"CONVERSATION_CONTEXT_MAX_TURNS" default:"10"`
	}
}

type RuntimeConfig struct {
	// MaxAdaptTurns bounds how many extra plan->execute->validate cycles a run
	// may perform beyond the initial one.
	MaxAdaptTurns int `envconfig:"RUNTIME_MAX_ADAPT_TURNS" default:"1"`
	// MaxTotalToolCalls caps the number of tool calls issued across all turns
	// of a single run.
	MaxTotalToolCalls int `envconfig:"RUNTIME_MAX_TOTAL_TOOL_CALLS" default:"10"`
	// MaxIssueRetries caps how many times the same class of validation issue
	// may trigger adaptation within one run.
	MaxIssueRetries int    `envconfig:"RUNTIME_MAX_ISSUE_RETRIES" default:"2"`
	ToolTimeout     string `envconfig:"RUNTIME_TOOL_TIMEOUT" default:"30s"`
}

type NotifierConfig struct {
	MaxMessages int    `envconfig:"NOTIFY_MAX_MESSAGES" default:"2"`
	FirstAfter  string `envconfig:"NOTIFY_FIRST_AFTER" default:"4s"`
	SecondAfter string `envconfig:"NOTIFY_SECOND_AFTER" default:"10s"`
}

type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type ResponsePromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"boutique hotel"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"Bookline Suites"`
}
