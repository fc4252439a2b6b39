package router

import "github.com/zen-systems/taskgate/pkg/adapter"

// Cost is an estimated charge for one provider invocation.
type Cost struct {
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	IsEstimate bool    `json:"is_estimate"`
}

// ModelPricing holds per-1K-token prices for one model.
type ModelPricing struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k" json:"prompt_per_1k"`
	CompletionPer1K float64 `yaml:"completion_per_1k" json:"completion_per_1k"`
}

// Pricing maps a model name to its token prices. The "default" key
// covers models without an explicit entry.
type Pricing map[string]ModelPricing

// DefaultPricing covers the built-in tier models, prices in USD.
func DefaultPricing() Pricing {
	return Pricing{
		"gemini-2.0-flash":         {PromptPer1K: 0.0001, CompletionPer1K: 0.0004},
		"gemini-2.0-pro":           {PromptPer1K: 0.00125, CompletionPer1K: 0.005},
		"claude-sonnet-4-20250514": {PromptPer1K: 0.003, CompletionPer1K: 0.015},
		"claude-opus-4-20250514":   {PromptPer1K: 0.015, CompletionPer1K: 0.075},
		"deepseek-reasoner":        {PromptPer1K: 0.00055, CompletionPer1K: 0.00219},
	}
}

// EstimateCost prices a provider invocation from its reported usage.
// The bool result is false when the model has no pricing entry or the
// usage is unknown.
func EstimateCost(pricing Pricing, model string, usage *adapter.Usage) (Cost, bool) {
	if pricing == nil || usage == nil {
		return Cost{Currency: "USD"}, false
	}
	entry, ok := pricing[model]
	if !ok {
		entry, ok = pricing["default"]
		if !ok {
			return Cost{Currency: "USD"}, false
		}
	}

	u := normalizeUsage(usage)
	amount := (float64(u.PromptTokens)/1000.0)*entry.PromptPer1K +
		(float64(u.CompletionTokens)/1000.0)*entry.CompletionPer1K
	return Cost{Currency: "USD", Amount: amount, IsEstimate: true}, true
}

// normalizeUsage fills in a missing total from the part counts.
func normalizeUsage(u *adapter.Usage) adapter.Usage {
	usage := *u
	if usage.TotalTokens == 0 && (usage.PromptTokens > 0 || usage.CompletionTokens > 0) {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}
