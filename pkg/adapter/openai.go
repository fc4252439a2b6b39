package adapter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/zen-systems/taskgate/pkg/task"
)

// OpenAIAdapter implements the Adapter interface for OpenAI models.
type OpenAIAdapter struct {
	client openai.Client
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient()
	return &OpenAIAdapter{client: client}, nil
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Models returns the list of supported OpenAI models.
func (a *OpenAIAdapter) Models() []string {
	return []string{
		"gpt-5.2-instant",
		"gpt-5.2-thinking",
		"gpt-5.2-pro",
	}
}

// Invoke sends the task conversation to OpenAI.
func (a *OpenAIAdapter) Invoke(ctx context.Context, model string, t task.Task, call task.CallContext) (*Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, m := range BuildMessages(t, call) {
		switch m.Role {
		case task.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case task.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(4096),
	})
	if err != nil {
		return nil, &AdapterError{Provider: a.Name(), Err: fmt.Errorf("openai API error: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return nil, &AdapterError{Provider: a.Name(), Err: fmt.Errorf("openai returned no choices")}
	}

	return &Response{
		Content:  resp.Choices[0].Message.Content,
		Provider: a.Name(),
		Model:    model,
		Usage: &Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
