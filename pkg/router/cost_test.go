package router

import (
	"math"
	"testing"

	"github.com/zen-systems/taskgate/pkg/adapter"
)

func TestEstimateCost(t *testing.T) {
	pricing := Pricing{
		"model-a": {PromptPer1K: 0.001, CompletionPer1K: 0.002},
		"default": {PromptPer1K: 0.01, CompletionPer1K: 0.02},
	}

	tests := []struct {
		name       string
		model      string
		usage      *adapter.Usage
		wantAmount float64
		wantOK     bool
	}{
		{"known model", "model-a", &adapter.Usage{PromptTokens: 1000, CompletionTokens: 500}, 0.002, true},
		{"falls back to default entry", "model-b", &adapter.Usage{PromptTokens: 1000}, 0.01, true},
		{"nil usage", "model-a", nil, 0, false},
		{"zero usage is free", "model-a", &adapter.Usage{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, ok := EstimateCost(pricing, tt.model, tt.usage)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(cost.Amount-tt.wantAmount) > 1e-9 {
				t.Errorf("amount = %v, want %v", cost.Amount, tt.wantAmount)
			}
			if !cost.IsEstimate || cost.Currency != "USD" {
				t.Errorf("cost = %+v", cost)
			}
		})
	}
}

func TestEstimateCost_NoPricingEntry(t *testing.T) {
	pricing := Pricing{"model-a": {PromptPer1K: 0.001}}

	if _, ok := EstimateCost(pricing, "unknown", &adapter.Usage{PromptTokens: 100}); ok {
		t.Error("expected no estimate without a pricing entry")
	}
	if _, ok := EstimateCost(nil, "model-a", &adapter.Usage{PromptTokens: 100}); ok {
		t.Error("expected no estimate without a pricing table")
	}
}

func TestDefaultPricing_CoversTierModels(t *testing.T) {
	pricing := DefaultPricing()
	for _, tier := range Tiers() {
		target := TargetFor(tier)
		if _, ok := pricing[target.Model]; !ok {
			t.Errorf("no pricing entry for tier %s model %s", tier, target.Model)
		}
	}
}
