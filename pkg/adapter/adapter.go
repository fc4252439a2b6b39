// Package adapter defines the provider capability contract and its
// per-provider implementations. An adapter either returns a complete
// response or an error; partial successes are never surfaced.
package adapter

import (
	"context"
	"strings"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Adapter is the capability contract for one LLM provider.
type Adapter interface {
	// Invoke sends a task to the given model and returns the response.
	Invoke(ctx context.Context, model string, t task.Task, call task.CallContext) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// BuildMessages flattens a task and its call context into an ordered
// conversation: optional system framing, call history, task history,
// then the task text as the final user turn.
func BuildMessages(t task.Task, call task.CallContext) []task.Message {
	var msgs []task.Message

	if framing := systemFraming(call); framing != "" {
		msgs = append(msgs, task.Message{Role: task.RoleSystem, Content: framing})
	}
	msgs = append(msgs, call.History...)
	msgs = append(msgs, t.History...)
	msgs = append(msgs, task.Message{Role: task.RoleUser, Content: t.Text()})

	return msgs
}

// FlattenMessages renders a conversation as a single prompt for
// providers invoked with plain text.
func FlattenMessages(msgs []task.Message) string {
	if len(msgs) == 1 {
		return msgs[0].Content
	}
	var sb strings.Builder
	for _, m := range msgs {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}

func systemFraming(call task.CallContext) string {
	var parts []string
	if call.Role != "" {
		parts = append(parts, "You are "+call.Role+".")
	}
	if call.Guidelines != "" {
		parts = append(parts, call.Guidelines)
	}
	return strings.Join(parts, "\n")
}
