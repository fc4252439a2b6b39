package task

// Priority is a caller-supplied routing hint.
type Priority string

// Recognized priority values. Empty means unset.
const (
	PriorityHigh Priority = "high"
	PriorityLow  Priority = "low"
)

// CallContext carries auxiliary hints accompanying a task call.
// It is read-only to the router and never mutated by the core.
type CallContext struct {
	History           []Message      `json:"history,omitempty"`
	Priority          Priority       `json:"priority,omitempty"`
	RequiresReasoning bool           `json:"requires_reasoning,omitempty"`
	Role              string         `json:"role,omitempty"`
	Guidelines        string         `json:"guidelines,omitempty"`
	SessionID         string         `json:"session_id,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
}
