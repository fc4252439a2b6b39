package adapter

import (
	"context"
	"fmt"

	"github.com/zen-systems/taskgate/pkg/task"
)

// MockAdapter returns deterministic responses for local runs and tests.
// Err, when set, is returned for every invocation; Calls counts them.
type MockAdapter struct {
	NameID    string
	Responses map[string]string
	Reasoning []string
	Usage     *Usage
	Err       error
	Calls     int
	LastModel string
}

// NewMockAdapter creates a mock adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{NameID: "mock"}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	if a.NameID == "" {
		return "mock"
	}
	return a.NameID
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Invoke returns a deterministic response for the task text.
func (a *MockAdapter) Invoke(_ context.Context, model string, t task.Task, _ task.CallContext) (*Response, error) {
	a.Calls++
	a.LastModel = model
	if a.Err != nil {
		return nil, a.Err
	}
	if model == "" {
		model = "mock-1"
	}

	text := t.Text()
	content, ok := a.Responses[text]
	if !ok {
		content = fmt.Sprintf("mock response:\n%s", text)
	}

	return &Response{
		Content:   content,
		Provider:  a.Name(),
		Model:     model,
		Reasoning: a.Reasoning,
		Usage:     a.Usage,
	}, nil
}
