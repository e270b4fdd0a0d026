package model

// Tool names known to the booking agent. The planner model is only allowed to
// reference these; anything else is recorded as a failed call.
const (
	ToolResolveDate    = "resolve_date"
	ToolSearchRooms    = "search_rooms"
	ToolGetRoomDetails = "get_room_details"
	ToolGetRoomRate    = "get_room_rate"
)

// Tool categories used by the validator's per-issue retry accounting. The key
// is the category, not the individual call, so the same class of problem stops
// triggering adaptation after its budget is spent.
const (
	CategorySearch  = "search"
	CategoryDate    = "date"
	CategoryGeneric = "generic"
)

// CategoryOf maps a tool name to its validation category.
func CategoryOf(tool string) string {
	switch tool {
	case ToolSearchRooms:
		return CategorySearch
	case ToolResolveDate:
		return CategoryDate
	default:
		return CategoryGeneric
	}
}

// ToolCall identifies one unit of work inside a plan. Immutable once created.
type ToolCall struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	DependsOn []string       `json:"depends_on,omitempty"`
}

// Plan is an ordered collection of tool calls plus a high-level action label,
// produced by the planner. Immutable.
type Plan struct {
	Action string     `json:"action"`
	Calls  []ToolCall `json:"tool_calls"`
}

// IsEmpty reports whether the plan carries no tool calls. An empty plan from
// the adaptive planner means "no further adaptation worth attempting".
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Calls) == 0
}

// ToolResult is the recorded outcome of a single tool call, keyed by call id.
// Failures are data, not errors: a failed call carries a non-empty Error and
// never aborts sibling calls.
type ToolResult struct {
	ToolID string         `json:"tool_id"`
	Tool   string         `json:"tool"`
	Data   map[string]any `json:"data,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Failed reports whether the call produced a failure payload.
func (r ToolResult) Failed() bool {
	return r.Error != ""
}
