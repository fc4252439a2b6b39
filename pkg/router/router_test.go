package router

import (
	"context"
	"errors"
	"testing"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/analyze"
	"github.com/zen-systems/taskgate/pkg/task"
)

func testAdapters() (map[string]adapter.Adapter, *adapter.MockAdapter, *adapter.MockAdapter, *adapter.MockAdapter) {
	google := &adapter.MockAdapter{NameID: "google"}
	anthropic := &adapter.MockAdapter{NameID: "anthropic"}
	deepseek := &adapter.MockAdapter{NameID: "deepseek", Reasoning: []string{"step one", "step two"}}
	adapters := map[string]adapter.Adapter{
		"google":    google,
		"anthropic": anthropic,
		"deepseek":  deepseek,
	}
	return adapters, google, anthropic, deepseek
}

func TestRouter_RoutesByTier(t *testing.T) {
	adapters, google, anthropic, _ := testAdapters()
	r := New(adapters)

	tests := []struct {
		name        string
		complexity  int
		wantTier    Tier
		wantAdapter *adapter.MockAdapter
		wantModel   string
	}{
		{"simple to flash", 15, TierFlash, google, "gemini-2.0-flash"},
		{"medium to pro", 50, TierPro, google, "gemini-2.0-pro"},
		{"complex to sonnet", 80, TierSonnet, anthropic, "claude-sonnet-4-20250514"},
		{"beyond complex to opus", 95, TierOpus, anthropic, "claude-opus-4-20250514"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.wantAdapter.Calls
			result, err := r.Route(context.Background(), task.FromText("x"),
				analyze.TaskAnalysis{Complexity: tc.complexity}, DefaultThresholds(), task.CallContext{})
			if err != nil {
				t.Fatalf("Route failed: %v", err)
			}
			if result.Tier != tc.wantTier {
				t.Errorf("tier = %s, want %s", result.Tier, tc.wantTier)
			}
			if result.Model != tc.wantModel {
				t.Errorf("model = %s, want %s", result.Model, tc.wantModel)
			}
			if tc.wantAdapter.Calls != before+1 {
				t.Errorf("adapter calls = %d, want %d", tc.wantAdapter.Calls, before+1)
			}
		})
	}
}

func TestRouter_StepwiseRoutesToReasoning(t *testing.T) {
	adapters, _, _, deepseek := testAdapters()
	r := New(adapters)

	result, err := r.Route(context.Background(), task.FromText("prove it"),
		analyze.TaskAnalysis{Complexity: 0, RequiresStepwise: true}, DefaultThresholds(), task.CallContext{})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if result.Tier != TierReasoning {
		t.Errorf("tier = %s, want %s", result.Tier, TierReasoning)
	}
	if deepseek.Calls != 1 {
		t.Errorf("deepseek calls = %d, want 1", deepseek.Calls)
	}
	if len(result.Response.Reasoning) == 0 {
		t.Error("reasoning tier response should carry reasoning steps")
	}
}

func TestRouteWithFallback_RetriesOnceOnCheapestTier(t *testing.T) {
	adapters, google, _, deepseek := testAdapters()
	deepseek.Err = errors.New("quota exceeded")
	r := New(adapters)

	result, err := r.RouteWithFallback(context.Background(), task.FromText("prove it"),
		analyze.TaskAnalysis{RequiresStepwise: true}, DefaultThresholds(), task.CallContext{})
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}

	if deepseek.Calls != 1 {
		t.Errorf("primary calls = %d, want exactly 1", deepseek.Calls)
	}
	if google.Calls != 1 {
		t.Errorf("fallback calls = %d, want exactly 1", google.Calls)
	}
	if !result.FallbackUsed {
		t.Error("result should be marked as fallback")
	}
	if result.Tier != TierFlash {
		t.Errorf("fallback tier = %s, want %s", result.Tier, TierFlash)
	}
}

func TestRouteWithFallback_FallbackFailurePropagates(t *testing.T) {
	adapters, google, anthropic, _ := testAdapters()
	anthropic.Err = errors.New("primary down")
	google.Err = errors.New("fallback down")
	r := New(adapters)

	_, err := r.RouteWithFallback(context.Background(), task.FromText("x"),
		analyze.TaskAnalysis{Complexity: 95}, DefaultThresholds(), task.CallContext{})
	if err == nil {
		t.Fatal("expected error when fallback also fails")
	}
	if !errors.Is(err, google.Err) {
		t.Errorf("error should wrap the fallback failure, got %v", err)
	}

	// At-most-one-retry: one primary call, one fallback call, nothing more.
	if anthropic.Calls != 1 || google.Calls != 1 {
		t.Errorf("calls = primary %d fallback %d, want 1 and 1", anthropic.Calls, google.Calls)
	}
}

func TestRouteWithFallback_NoRetryOnSuccess(t *testing.T) {
	adapters, google, anthropic, _ := testAdapters()
	r := New(adapters)

	result, err := r.RouteWithFallback(context.Background(), task.FromText("x"),
		analyze.TaskAnalysis{Complexity: 80}, DefaultThresholds(), task.CallContext{})
	if err != nil {
		t.Fatalf("RouteWithFallback failed: %v", err)
	}
	if result.FallbackUsed {
		t.Error("successful primary call should not be marked as fallback")
	}
	if anthropic.Calls != 1 || google.Calls != 0 {
		t.Errorf("calls = primary %d fallback %d, want 1 and 0", anthropic.Calls, google.Calls)
	}
}

func TestRouteTo_BypassesTierSelection(t *testing.T) {
	openai := &adapter.MockAdapter{NameID: "openai"}
	r := New(map[string]adapter.Adapter{"openai": openai})

	result, err := r.RouteTo(context.Background(), "openai", "gpt-4o",
		task.FromText("x"), task.CallContext{})
	if err != nil {
		t.Fatalf("RouteTo failed: %v", err)
	}

	if openai.Calls != 1 || openai.LastModel != "gpt-4o" {
		t.Errorf("calls/model = %d/%q", openai.Calls, openai.LastModel)
	}
	if result.Tier != "" {
		t.Errorf("tier = %s, want empty for direct dispatch", result.Tier)
	}
	if result.Model != "gpt-4o" {
		t.Errorf("model = %s, want gpt-4o", result.Model)
	}
}

func TestRouteTo_EmptyModelUsesAdapterDefault(t *testing.T) {
	openai := &adapter.MockAdapter{NameID: "openai"}
	r := New(map[string]adapter.Adapter{"openai": openai})

	result, err := r.RouteTo(context.Background(), "openai", "",
		task.FromText("x"), task.CallContext{})
	if err != nil {
		t.Fatalf("RouteTo failed: %v", err)
	}
	if result.Model != openai.Models()[0] {
		t.Errorf("model = %s, want adapter default %s", result.Model, openai.Models()[0])
	}
}

func TestRouteTo_NoFallbackOnFailure(t *testing.T) {
	adapters, google, anthropic, _ := testAdapters()
	anthropic.Err = errors.New("provider down")
	r := New(adapters)

	_, err := r.RouteTo(context.Background(), "anthropic", "", task.FromText("x"), task.CallContext{})
	if err == nil {
		t.Fatal("expected the provider error to surface")
	}
	if !errors.Is(err, anthropic.Err) {
		t.Errorf("error = %v, want the provider failure", err)
	}
	if google.Calls != 0 {
		t.Error("direct dispatch must never fall back to another adapter")
	}
}

func TestRouteTo_UnknownAdapter(t *testing.T) {
	adapters, _, _, _ := testAdapters()
	r := New(adapters)

	if _, err := r.RouteTo(context.Background(), "openai", "", task.FromText("x"), task.CallContext{}); err == nil {
		t.Fatal("expected error for unregistered adapter")
	}
}

func TestRouter_MissingAdapter(t *testing.T) {
	r := New(map[string]adapter.Adapter{})

	_, err := r.Route(context.Background(), task.FromText("x"),
		analyze.TaskAnalysis{Complexity: 10}, DefaultThresholds(), task.CallContext{})
	if err == nil {
		t.Fatal("expected error for unregistered adapter")
	}
}
