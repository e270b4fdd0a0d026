package tools

import (
	"context"
	"testing"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepInput struct {
	Unused string `json:"unused,omitempty"`
}

type sleepOutput struct {
	OK bool `json:"ok"`
}

func bookingRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(context.Background(), 5*time.Second, GetBookingTools()...)
	require.NoError(t, err)
	return r
}

func TestRegistryCatalogListsAllTools(t *testing.T) {
	r := bookingRegistry(t)

	assert.Len(t, r.Infos(), 4)
	catalog := r.Catalog()
	for _, name := range []string{model.ToolResolveDate, model.ToolSearchRooms, model.ToolGetRoomDetails, model.ToolGetRoomRate} {
		assert.Contains(t, catalog, name)
	}
}

func TestInvokeUnknownToolIsFailureResult(t *testing.T) {
	r := bookingRegistry(t)

	res := r.Invoke(context.Background(), model.ToolCall{ID: "x1", Tool: "book_helicopter"})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "unknown tool")
	assert.Equal(t, "x1", res.ToolID)
}

func TestInvokeToolErrorIsFailureResult(t *testing.T) {
	r := bookingRegistry(t)

	// search without the required dates
	res := r.Invoke(context.Background(), model.ToolCall{ID: "s1", Tool: model.ToolSearchRooms})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "check_in and check_out are required")
}

func TestInvokeParsesJSONOutput(t *testing.T) {
	r := bookingRegistry(t)

	res := r.Invoke(context.Background(), model.ToolCall{
		ID:   "s1",
		Tool: model.ToolSearchRooms,
		Arguments: map[string]any{
			"check_in":  "2026-09-05",
			"check_out": "2026-09-06",
			"guests":    2,
		},
	})
	require.False(t, res.Failed(), res.Error)
	rooms, ok := res.Data["available_rooms"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, rooms)
}

func TestInvokeNoMatchingRoomsIsEmptyNotError(t *testing.T) {
	r := bookingRegistry(t)

	// No available room sleeps more than 5.
	res := r.Invoke(context.Background(), model.ToolCall{
		ID:   "s1",
		Tool: model.ToolSearchRooms,
		Arguments: map[string]any{
			"check_in":  "2026-09-05",
			"check_out": "2026-09-06",
			"guests":    6,
		},
	})
	require.False(t, res.Failed(), res.Error)
	rooms, ok := res.Data["available_rooms"].([]any)
	require.True(t, ok)
	assert.Empty(t, rooms)
}

func TestInvokeTimeoutIsFailureResult(t *testing.T) {
	sleeper := utils.NewTool(
		&schema.ToolInfo{
			Name: "sleeper",
			Desc: "blocks until the context expires",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"unused": {Type: "string"},
			}),
		},
		func(ctx context.Context, _ *sleepInput) (*sleepOutput, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)

	r, err := NewRegistry(context.Background(), 50*time.Millisecond, sleeper)
	require.NoError(t, err)

	res := r.Invoke(context.Background(), model.ToolCall{ID: "z1", Tool: "sleeper"})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "timed out after")
}

func TestNewRegistryRejectsDuplicateTools(t *testing.T) {
	_, err := NewRegistry(context.Background(), time.Second, createSearchRoomsTool(), createSearchRoomsTool())
	assert.Error(t, err)
}

func TestInvokeRoomDetails(t *testing.T) {
	r := bookingRegistry(t)

	res := r.Invoke(context.Background(), model.ToolCall{
		ID:        "d1",
		Tool:      model.ToolGetRoomDetails,
		Arguments: map[string]any{"room_id": "room-201"},
	})
	require.False(t, res.Failed(), res.Error)
	assert.Equal(t, "room-201", res.Data["id"])

	missing := r.Invoke(context.Background(), model.ToolCall{
		ID:        "d2",
		Tool:      model.ToolGetRoomDetails,
		Arguments: map[string]any{"room_id": "room-999"},
	})
	assert.True(t, missing.Failed())
	assert.Contains(t, missing.Error, "room not found")
}
