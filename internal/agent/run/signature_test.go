package run

import (
	"testing"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func TestSignatureIgnoresArgumentOrder(t *testing.T) {
	a := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05", "guests": 2})
	b := Signature(model.ToolSearchRooms, map[string]any{"guests": 2, "check_in": "2026-09-05"})
	assert.Equal(t, a, b)
}

func TestSignatureIgnoresPresentationArgs(t *testing.T) {
	a := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05", "max_results": 5})
	b := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05", "max_results": 20})
	c := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05"})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestSignatureDistinguishesTools(t *testing.T) {
	a := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05"})
	b := Signature(model.ToolGetRoomRate, map[string]any{"check_in": "2026-09-05"})
	assert.NotEqual(t, a, b)
}

func TestSignatureDistinguishesArguments(t *testing.T) {
	a := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-05"})
	b := Signature(model.ToolSearchRooms, map[string]any{"check_in": "2026-09-06"})
	assert.NotEqual(t, a, b)
}

func TestCallSignatureMatchesSignature(t *testing.T) {
	call := model.ToolCall{
		ID:        "call_1",
		Tool:      model.ToolResolveDate,
		Arguments: map[string]any{"date_text": "this weekend"},
	}
	assert.Equal(t, Signature(call.Tool, call.Arguments), CallSignature(call))
}
