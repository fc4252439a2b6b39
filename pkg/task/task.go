package task

import (
	"encoding/json"
	"strings"
	"time"
)

// Task is the polymorphic unit of work handed to the router.
// Content may be a plain string, a []ContentPart, or any other value;
// Text normalizes all three shapes identically for every consumer.
type Task struct {
	ID         string         `json:"id,omitempty"`
	Content    any            `json:"content"`
	Complexity int            `json:"complexity,omitempty"`
	Action     string         `json:"action,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
	History    []Message      `json:"history,omitempty"`
	References []string       `json:"references,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ContentPart is one typed segment of structured task content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is a single conversation turn.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// FromText builds a plain-text task.
func FromText(text string) Task {
	return Task{Content: text}
}

// Text extracts the task's text deterministically across all content
// shapes. An unrecognized content value degrades to serializing the
// whole task rather than failing.
func (t Task) Text() string {
	switch c := t.Content.(type) {
	case string:
		return c
	case []ContentPart:
		var sb strings.Builder
		for _, part := range c {
			if part.Text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(part.Text)
		}
		return sb.String()
	case []any:
		var sb strings.Builder
		for _, item := range c {
			text := partText(item)
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
		return sb.String()
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func partText(item any) string {
	switch p := item.(type) {
	case ContentPart:
		return p.Text
	case string:
		return p
	case map[string]any:
		if text, ok := p["text"].(string); ok {
			return text
		}
	}
	return ""
}

// HasContextualFields reports whether the task carries any auxiliary
// context beyond its own text.
func (t Task) HasContextualFields() bool {
	return len(t.Context) > 0 || len(t.History) > 0 || len(t.References) > 0
}

// WithComplexity returns a copy of the task with the complexity stamped.
// The receiver is never mutated; callers may reuse the original task.
func (t Task) WithComplexity(score int) Task {
	t.Complexity = score
	return t
}
