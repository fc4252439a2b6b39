package adapter

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a complete provider response. Reasoning is populated only
// by providers that expose intermediate reasoning steps.
type Response struct {
	Content   string   `json:"content"`
	Provider  string   `json:"provider"`
	Model     string   `json:"model"`
	Reasoning []string `json:"reasoning,omitempty"`
	Usage     *Usage   `json:"usage,omitempty"`
}
