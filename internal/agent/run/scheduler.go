package run

import (
	"context"
	"fmt"
	"sync"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/notify"
	errx "github.com/Bookline-core-poc-v1/server/internal/core/error"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// Invoker executes a single named tool call. Implementations absorb timeouts
// and tool errors into the returned result; they never panic the run.
type Invoker interface {
	Invoke(ctx context.Context, call model.ToolCall) model.ToolResult
}

// WaveScheduler partitions a plan into dependency-respecting parallel waves
// and executes them in order. It is created per run because it carries the
// run-scoped progress notifier.
type WaveScheduler struct {
	invoker  Invoker
	notifier *notify.Notifier
}

func NewWaveScheduler(invoker Invoker, notifier *notify.Notifier) *WaveScheduler {
	return &WaveScheduler{invoker: invoker, notifier: notifier}
}

// Execute runs every call of the plan, recording outcomes into results.
// Semantics:
//   - a dependency is satisfied by any recorded result, pass or fail;
//   - all calls of a wave run concurrently, and a failing call never aborts
//     its siblings;
//   - the cancellation token is checked only at wave boundaries, so an
//     in-flight call always runs to completion;
//   - on cancellation Execute returns true and results holds everything
//     gathered so far.
//
// A structurally invalid plan (unknown dependency id, duplicate id, cycle)
// fails fast before any call runs.
func (s *WaveScheduler) Execute(ctx context.Context, plan *model.Plan, token *Token, results map[string]model.ToolResult) (bool, error) {
	if err := validatePlan(plan); err != nil {
		return false, errx.WrapPlan(err)
	}

	pending := make([]model.ToolCall, len(plan.Calls))
	copy(pending, plan.Calls)

	wave := 0
	for len(pending) > 0 {
		if token.Cancelled() {
			logx.Debug().Int("wave", wave).Int("results", len(results)).Msg("run cancelled at wave boundary")
			return true, nil
		}

		ready, rest := nextWave(pending, results)
		if len(ready) == 0 {
			// validatePlan rules this out; guard against a logic regression.
			return false, errx.WrapPlan(fmt.Errorf("no runnable calls among %d pending", len(pending)))
		}

		logx.Debug().Int("wave", wave).Int("calls", len(ready)).Msg("executing wave")

		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, call := range ready {
			s.notifier.ToolStarted(ctx, call.Tool)
			wg.Add(1)
			go func(c model.ToolCall) {
				defer wg.Done()
				res := s.invoker.Invoke(ctx, c)
				mu.Lock()
				results[c.ID] = res
				mu.Unlock()
			}(call)
		}
		wg.Wait()

		s.notifier.ElapsedCheck(ctx)
		pending = rest
		wave++
	}

	return false, nil
}

// nextWave selects every pending call whose dependencies all have a recorded
// result. Greedy layering maximises parallelism.
func nextWave(pending []model.ToolCall, results map[string]model.ToolResult) (ready, rest []model.ToolCall) {
	for _, call := range pending {
		satisfied := true
		for _, dep := range call.DependsOn {
			if _, ok := results[dep]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, call)
		} else {
			rest = append(rest, call)
		}
	}
	return ready, rest
}

// validatePlan rejects plans whose dependency graph cannot execute: duplicate
// ids, references to ids absent from the plan, or cycles.
func validatePlan(plan *model.Plan) error {
	ids := make(map[string]struct{}, len(plan.Calls))
	for _, call := range plan.Calls {
		if call.ID == "" {
			return fmt.Errorf("tool call %q has no id", call.Tool)
		}
		if _, dup := ids[call.ID]; dup {
			return fmt.Errorf("duplicate tool call id %q", call.ID)
		}
		ids[call.ID] = struct{}{}
	}

	indegree := make(map[string]int, len(plan.Calls))
	dependents := make(map[string][]string)
	for _, call := range plan.Calls {
		for _, dep := range call.DependsOn {
			if _, ok := ids[dep]; !ok {
				return fmt.Errorf("tool call %q depends on unknown id %q", call.ID, dep)
			}
			indegree[call.ID]++
			dependents[dep] = append(dependents[dep], call.ID)
		}
	}

	// Kahn's algorithm: if not every call can be ordered, there is a cycle.
	queue := make([]string, 0, len(plan.Calls))
	for _, call := range plan.Calls {
		if indegree[call.ID] == 0 {
			queue = append(queue, call.ID)
		}
	}
	ordered := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered++
		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if ordered != len(plan.Calls) {
		return fmt.Errorf("dependency cycle among tool calls")
	}
	return nil
}
