package run

import (
	"context"
	"net/http"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/notify"
	errx "github.com/Bookline-core-poc-v1/server/internal/core/error"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// Responder is the external response-generation collaborator.
type Responder interface {
	Generate(ctx context.Context, userID, userMessage string, results map[string]model.ToolResult) (string, error)
}

// ConversationContext records the turn into conversation history and provides
// the planner's conversation context. Optional: a nil value skips persistence.
type ConversationContext interface {
	RecordUserMessage(ctx context.Context, conversationID, query string) (string, error)
	SaveResponse(ctx context.Context, conversationID, content string) error
}

type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusFailure   Status = "failure"
)

// Outcome is the tagged result of one run. Cancellation is a first-class
// outcome carrying partial results, never a thrown error; structural failures
// (invalid plan, collaborator error) carry Err.
type Outcome struct {
	Status   Status
	Response string
	Results  map[string]model.ToolResult
	Err      error
}

// Orchestrator drives one user message through planning, wave execution,
// validation, bounded adaptation and response generation, checking the
// cancellation token at every phase transition.
type Orchestrator struct {
	planner   Planner
	responder Responder
	invoker   Invoker
	msgs      ConversationContext
	cfg       model.RuntimeConfig
}

func NewOrchestrator(planner Planner, responder Responder, invoker Invoker, msgs ConversationContext, cfg model.RuntimeConfig) *Orchestrator {
	if cfg.MaxAdaptTurns < 0 {
		cfg.MaxAdaptTurns = 0
	}
	if cfg.MaxTotalToolCalls <= 0 {
		cfg.MaxTotalToolCalls = 10
	}
	if cfg.MaxIssueRetries <= 0 {
		cfg.MaxIssueRetries = 2
	}
	return &Orchestrator{
		planner:   planner,
		responder: responder,
		invoker:   invoker,
		msgs:      msgs,
		cfg:       cfg,
	}
}

// Run executes one end-to-end run for a user message. The token is borrowed
// from the owning session; Run only reads it. The notifier is run-scoped.
func (o *Orchestrator) Run(ctx context.Context, userID, message string, token *Token, notifier *notify.Notifier) Outcome {
	results := make(map[string]model.ToolResult)

	if token.Cancelled() {
		return cancelled(results)
	}

	// PLANNING
	conversationContext := ""
	if o.msgs != nil {
		var err error
		conversationContext, err = o.msgs.RecordUserMessage(ctx, userID, message)
		if err != nil {
			return failure(results, err)
		}
	}

	plan, err := o.planner.Plan(ctx, message, conversationContext)
	if err != nil {
		return failure(results, errx.New(err, http.StatusBadGateway, errx.PlannerErrorMessage))
	}
	if plan == nil {
		plan = &model.Plan{}
	}
	logx.Debug().Str("user_id", userID).Str("action", plan.Action).Int("calls", len(plan.Calls)).Msg("plan ready")

	if token.Cancelled() {
		return cancelled(results)
	}

	attempted := make(map[string]struct{}, len(plan.Calls))
	for _, call := range plan.Calls {
		attempted[CallSignature(call)] = struct{}{}
	}
	issued := len(plan.Calls)

	validator := NewValidator(o.cfg.MaxIssueRetries)
	adapter := NewAdapter(o.planner, o.cfg.MaxTotalToolCalls)
	scheduler := NewWaveScheduler(o.invoker, notifier)

	for turn := 0; ; turn++ {
		// EXECUTING
		wasCancelled, err := scheduler.Execute(ctx, plan, token, results)
		if err != nil {
			return failure(results, err)
		}
		if wasCancelled {
			return cancelled(results)
		}

		// VALIDATING
		if token.Cancelled() {
			return cancelled(results)
		}
		verdict := validator.Validate(plan, results, turn, o.cfg.MaxAdaptTurns)
		if !verdict.NeedsAdaptation {
			break
		}
		if issued >= o.cfg.MaxTotalToolCalls {
			logx.Debug().Int("issued", issued).Msg("total tool ceiling reached, responding with what we have")
			break
		}

		// ADAPTING
		if token.Cancelled() {
			return cancelled(results)
		}
		notifier.Adapting(ctx)
		next, err := adapter.Adapt(ctx, message, plan, results, verdict, attempted, issued, turn)
		if err != nil {
			return failure(results, errx.New(err, http.StatusBadGateway, errx.PlannerErrorMessage))
		}
		if next.IsEmpty() {
			logx.Debug().Str("user_id", userID).Msg("planner declined further adaptation")
			break
		}
		for _, call := range next.Calls {
			attempted[CallSignature(call)] = struct{}{}
		}
		issued += len(next.Calls)
		plan = next
	}

	// RESPONDING
	if token.Cancelled() {
		return cancelled(results)
	}
	response, err := o.responder.Generate(ctx, userID, message, results)
	if err != nil {
		return failure(results, errx.New(err, http.StatusBadGateway, errx.ResponderErrorMessage))
	}
	if o.msgs != nil {
		if err := o.msgs.SaveResponse(ctx, userID, response); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Msg("failed to persist assistant response")
		}
	}

	return Outcome{Status: StatusSuccess, Response: response, Results: results}
}

func cancelled(results map[string]model.ToolResult) Outcome {
	return Outcome{Status: StatusCancelled, Results: results}
}

func failure(results map[string]model.ToolResult, err error) Outcome {
	return Outcome{Status: StatusFailure, Results: results, Err: err}
}
