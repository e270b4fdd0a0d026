package run

import (
	"context"
	"testing"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlanner returns canned plans and records the requests it receives.
type stubPlanner struct {
	planResult  *model.Plan
	planErr     error
	adaptResult *model.Plan
	adaptErr    error

	adaptCalls int
	lastAdapt  *AdaptRequest
	adaptFn    func(turn int) *model.Plan
}

func (s *stubPlanner) Plan(_ context.Context, _, _ string) (*model.Plan, error) {
	return s.planResult, s.planErr
}

func (s *stubPlanner) Adapt(_ context.Context, req *AdaptRequest) (*model.Plan, error) {
	s.adaptCalls++
	s.lastAdapt = req
	if s.adaptFn != nil {
		return s.adaptFn(s.adaptCalls), s.adaptErr
	}
	return s.adaptResult, s.adaptErr
}

func TestAdaptFiltersAttemptedSignatures(t *testing.T) {
	repeated := model.ToolCall{ID: "s2", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2026-09-05"}}
	fresh := model.ToolCall{ID: "s3", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2026-09-06"}}
	planner := &stubPlanner{adaptResult: &model.Plan{Action: "search", Calls: []model.ToolCall{repeated, fresh}}}
	adapter := NewAdapter(planner, 10)

	attempted := map[string]struct{}{CallSignature(repeated): {}}
	next, err := adapter.Adapt(context.Background(), "msg", &model.Plan{Action: "search"},
		map[string]model.ToolResult{}, model.ValidationResult{}, attempted, 1, 0)
	require.NoError(t, err)

	require.Len(t, next.Calls, 1)
	assert.Equal(t, "s3", next.Calls[0].ID)
}

func TestAdaptDeduplicatesWithinPlan(t *testing.T) {
	call := model.ToolCall{ID: "s1", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2026-09-05"}}
	twin := model.ToolCall{ID: "s2", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2026-09-05", "max_results": 20}}
	planner := &stubPlanner{adaptResult: &model.Plan{Calls: []model.ToolCall{call, twin}}}
	adapter := NewAdapter(planner, 10)

	next, err := adapter.Adapt(context.Background(), "msg", &model.Plan{},
		map[string]model.ToolResult{}, model.ValidationResult{}, map[string]struct{}{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, next.Calls, 1)
}

func TestAdaptTruncatesAtTotalCeiling(t *testing.T) {
	planner := &stubPlanner{adaptResult: &model.Plan{Calls: []model.ToolCall{
		{ID: "a", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "1"}},
		{ID: "b", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2"}},
		{ID: "c", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "3"}},
	}}}
	adapter := NewAdapter(planner, 10)

	// 8 calls already issued against a ceiling of 10 leaves room for 2.
	next, err := adapter.Adapt(context.Background(), "msg", &model.Plan{},
		map[string]model.ToolResult{}, model.ValidationResult{}, map[string]struct{}{}, 8, 0)
	require.NoError(t, err)
	assert.Len(t, next.Calls, 2)
}

func TestAdaptEmptyPlanMeansStop(t *testing.T) {
	planner := &stubPlanner{adaptResult: &model.Plan{Action: "respond"}}
	adapter := NewAdapter(planner, 10)

	next, err := adapter.Adapt(context.Background(), "msg", &model.Plan{},
		map[string]model.ToolResult{}, model.ValidationResult{}, map[string]struct{}{}, 2, 0)
	require.NoError(t, err)
	assert.True(t, next.IsEmpty())
}

func TestAdaptRenamesCollidingIDs(t *testing.T) {
	planner := &stubPlanner{adaptResult: &model.Plan{Calls: []model.ToolCall{
		{ID: "d1", Tool: model.ToolResolveDate, Arguments: map[string]any{"date_text": "next week"}},
		{ID: "s1", Tool: model.ToolSearchRooms, Arguments: map[string]any{"check_in": "2026-09-07"}, DependsOn: []string{"d1"}},
	}}}
	adapter := NewAdapter(planner, 10)

	// d1 already has a recorded result from the first turn.
	results := map[string]model.ToolResult{
		"d1": {ToolID: "d1", Tool: model.ToolResolveDate, Data: map[string]any{"note": "unresolved"}},
	}
	next, err := adapter.Adapt(context.Background(), "msg", &model.Plan{},
		results, model.ValidationResult{}, map[string]struct{}{}, 2, 0)
	require.NoError(t, err)

	require.Len(t, next.Calls, 2)
	assert.Equal(t, "d1_t1", next.Calls[0].ID)
	assert.Equal(t, []string{"d1_t1"}, next.Calls[1].DependsOn, "dependencies must follow renamed ids")
	// The earlier result is untouched.
	assert.Contains(t, results, "d1")
}

func TestAdaptBundleCarriesContext(t *testing.T) {
	planner := &stubPlanner{adaptResult: &model.Plan{Action: "respond"}}
	adapter := NewAdapter(planner, 10)

	results := map[string]model.ToolResult{
		"s1": {ToolID: "s1", Tool: model.ToolSearchRooms, Data: map[string]any{"available_rooms": []any{}}},
		"r1": {ToolID: "r1", Tool: model.ToolGetRoomRate, Error: "room not found"},
	}
	verdict := model.ValidationResult{
		Feedback:    "search_rooms (s1) returned no available rooms",
		Suggestions: []string{"try an adjacent date range"},
	}
	attempted := map[string]struct{}{"search_rooms:{}": {}}

	_, err := adapter.Adapt(context.Background(), "a room for two", &model.Plan{Action: "search"},
		results, verdict, attempted, 2, 0)
	require.NoError(t, err)

	req := planner.lastAdapt
	require.NotNil(t, req)
	assert.Equal(t, "a room for two", req.UserMessage)
	assert.Equal(t, "search", req.Action)
	assert.Equal(t, []string{
		"get_room_rate (r1): failed: room not found",
		"search_rooms (s1): 0 rooms found",
	}, req.ExecutedSummary)
	assert.Equal(t, []string{"search_rooms:{}"}, req.AttemptedSignatures)

	bundle := req.Bundle()
	assert.Contains(t, bundle, "Original request: a room for two")
	assert.Contains(t, bundle, "no available rooms")
	assert.Contains(t, bundle, "Suggestion: try an adjacent date range")
	assert.Contains(t, bundle, "MUST NOT reissue")
}
