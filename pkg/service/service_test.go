package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/docs"
	"github.com/zen-systems/taskgate/pkg/metrics"
	"github.com/zen-systems/taskgate/pkg/router"
	"github.com/zen-systems/taskgate/pkg/task"
)

type captureSink struct {
	records []metrics.Record
}

func (c *captureSink) Record(r metrics.Record) { c.records = append(c.records, r) }

type fixture struct {
	svc       *Service
	google    *adapter.MockAdapter
	anthropic *adapter.MockAdapter
	deepseek  *adapter.MockAdapter
	openai    *adapter.MockAdapter
	creator   *docs.MockCreator
	sink      *captureSink
}

func newFixture(opts ...ServiceOption) *fixture {
	f := &fixture{
		google:    &adapter.MockAdapter{NameID: "google"},
		anthropic: &adapter.MockAdapter{NameID: "anthropic"},
		deepseek:  &adapter.MockAdapter{NameID: "deepseek", Reasoning: []string{"first", "second"}},
		openai:    &adapter.MockAdapter{NameID: "openai"},
		creator:   &docs.MockCreator{},
		sink:      &captureSink{},
	}
	r := router.New(map[string]adapter.Adapter{
		"google":    f.google,
		"anthropic": f.anthropic,
		"deepseek":  f.deepseek,
		"openai":    f.openai,
	})
	opts = append([]ServiceOption{
		WithDocuments(f.creator),
		WithMetrics(f.sink),
	}, opts...)
	f.svc = New(r, router.DefaultThresholds(), opts...)
	return f
}

func TestProcessTask_SimpleTaskUsesCheapestTier(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if result.Tier != router.TierFlash {
		t.Errorf("tier = %s, want %s", result.Tier, router.TierFlash)
	}
	if f.google.Calls != 1 {
		t.Errorf("google calls = %d, want 1", f.google.Calls)
	}
	if result.Task.Complexity != result.Analysis.Complexity {
		t.Errorf("returned task complexity = %d, want %d", result.Task.Complexity, result.Analysis.Complexity)
	}
}

func TestProcessTask_DoesNotMutateCallerTask(t *testing.T) {
	f := newFixture()
	original := task.FromText("simple")

	if _, err := f.svc.ProcessTask(context.Background(), original, task.CallContext{}); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if original.Complexity != 0 {
		t.Errorf("caller task mutated: complexity = %d", original.Complexity)
	}
}

func TestProcessTask_ReasoningHintForcesReasoningTier(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"),
		task.CallContext{RequiresReasoning: true})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if result.Tier != router.TierReasoning {
		t.Errorf("tier = %s, want %s", result.Tier, router.TierReasoning)
	}
	if len(result.Response.Reasoning) == 0 {
		t.Error("reasoning response should carry a non-empty reasoning field")
	}
}

func TestProcessTask_HighPriorityLowersSimpleBoundary(t *testing.T) {
	f := newFixture()

	// Base simple=16 puts a plain short task (score 15) just inside the
	// cheapest band; high priority lowers the boundary below it.
	if err := f.svc.UpdateThresholds(router.ThresholdUpdate{Simple: intPtr(16)}); err != nil {
		t.Fatalf("UpdateThresholds failed: %v", err)
	}

	normal, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if normal.Tier != router.TierFlash {
		t.Fatalf("tier without priority = %s, want %s (score %d)", normal.Tier, router.TierFlash, normal.Analysis.Complexity)
	}

	urgent, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"),
		task.CallContext{Priority: task.PriorityHigh})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if urgent.Tier != router.TierPro {
		t.Errorf("tier with high priority = %s, want %s", urgent.Tier, router.TierPro)
	}

	// Per-call derivation must not persist.
	if got := f.svc.Thresholds().Simple; got != 16 {
		t.Errorf("base simple boundary = %d, want 16", got)
	}
}

func TestProcessTask_CreateDocumentShortCircuits(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ProcessTask(context.Background(), task.Task{
		Content:  "quarterly numbers",
		Action:   ActionCreateDocument,
		Metadata: map[string]any{"title": "Q3 Report"},
	}, task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if f.creator.Calls != 1 {
		t.Errorf("creator calls = %d, want 1", f.creator.Calls)
	}
	if f.creator.LastTitle != "Q3 Report" {
		t.Errorf("title = %q, want %q", f.creator.LastTitle, "Q3 Report")
	}
	if result.Document == nil {
		t.Fatal("expected document in result")
	}
	if f.google.Calls+f.anthropic.Calls+f.deepseek.Calls+f.openai.Calls != 0 {
		t.Error("document creation must not invoke any provider")
	}
}

func TestProcessTask_MetricsRecordedOnSuccessAndFailure(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{}); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if len(f.sink.records) != 1 || f.sink.records[0].Status != metrics.StatusSuccess {
		t.Fatalf("records after success = %+v", f.sink.records)
	}

	f.google.Err = errors.New("provider down")
	if _, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{}); err == nil {
		t.Fatal("expected failure when primary and fallback share a failing adapter")
	}
	if len(f.sink.records) != 2 || f.sink.records[1].Status != metrics.StatusError {
		t.Fatalf("records after failure = %+v", f.sink.records)
	}
}

func TestProcessTask_FailureCarriesAnalysis(t *testing.T) {
	f := newFixture()
	f.google.Err = errors.New("provider down")

	_, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err == nil {
		t.Fatal("expected error")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error type = %T, want *ProcessError", err)
	}
	if procErr.Timestamp.IsZero() {
		t.Error("process error should carry a timestamp")
	}
	if procErr.Analysis.Complexity < 0 || procErr.Analysis.Complexity > 100 {
		t.Errorf("process error analysis complexity = %d", procErr.Analysis.Complexity)
	}
	if !errors.Is(err, f.google.Err) {
		t.Error("process error should wrap the provider failure")
	}
}

func TestProcessTask_FallbackRecoversProviderFailure(t *testing.T) {
	f := newFixture()
	f.anthropic.Err = errors.New("rate limited")

	// Score > 60 lands on the sonnet tier; its failure falls back to flash.
	if err := f.svc.UpdateThresholds(router.ThresholdUpdate{Simple: intPtr(5), Medium: intPtr(10)}); err != nil {
		t.Fatalf("UpdateThresholds failed: %v", err)
	}

	result, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("expected fallback recovery, got %v", err)
	}
	if !result.FallbackUsed {
		t.Error("result should be marked as fallback")
	}
	if f.anthropic.Calls != 1 || f.google.Calls != 1 {
		t.Errorf("calls = primary %d fallback %d, want 1 and 1", f.anthropic.Calls, f.google.Calls)
	}
}

func TestAnalyzeOnly_DoesNotDispatch(t *testing.T) {
	f := newFixture()

	analysis := f.svc.AnalyzeOnly(task.FromText("why did the deploy fail?"))
	if analysis.Complexity < 0 || analysis.Complexity > 100 {
		t.Errorf("complexity = %d, want 0..100", analysis.Complexity)
	}
	if f.google.Calls+f.anthropic.Calls+f.deepseek.Calls+f.openai.Calls != 0 {
		t.Error("analysis must not invoke any provider")
	}
	if len(f.sink.records) != 0 {
		t.Errorf("metrics records = %+v, want none", f.sink.records)
	}
}

func TestProcessTaskWith_DispatchesToNamedAdapter(t *testing.T) {
	f := newFixture()
	f.openai.Usage = &adapter.Usage{PromptTokens: 100, CompletionTokens: 100}

	result, err := f.svc.ProcessTaskWith(context.Background(), "openai", "gpt-4o",
		task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTaskWith failed: %v", err)
	}

	if f.openai.Calls != 1 || f.openai.LastModel != "gpt-4o" {
		t.Errorf("openai calls/model = %d/%q", f.openai.Calls, f.openai.LastModel)
	}
	if f.google.Calls+f.anthropic.Calls+f.deepseek.Calls != 0 {
		t.Error("direct dispatch must not touch the tier adapters")
	}
	if result.Tier != "" {
		t.Errorf("tier = %s, want empty for direct dispatch", result.Tier)
	}
	if result.Analysis.Complexity != result.Task.Complexity {
		t.Errorf("task complexity = %d, want %d", result.Task.Complexity, result.Analysis.Complexity)
	}
	if len(f.sink.records) != 1 || f.sink.records[0].Model != "gpt-4o" {
		t.Errorf("metrics records = %+v", f.sink.records)
	}
}

func TestProcessTaskWith_FailureWrapsWithoutFallback(t *testing.T) {
	f := newFixture()
	f.openai.Err = errors.New("provider down")

	_, err := f.svc.ProcessTaskWith(context.Background(), "openai", "",
		task.FromText("simple"), task.CallContext{})
	if err == nil {
		t.Fatal("expected error")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error type = %T, want *ProcessError", err)
	}
	if f.openai.Calls != 1 {
		t.Errorf("openai calls = %d, want 1", f.openai.Calls)
	}
	if f.google.Calls != 0 {
		t.Error("direct dispatch must not fall back")
	}
	if len(f.sink.records) != 1 || f.sink.records[0].Status != metrics.StatusError {
		t.Errorf("metrics records = %+v", f.sink.records)
	}
}

func TestProcessTask_CostEstimatedFromUsage(t *testing.T) {
	f := newFixture()
	f.google.Usage = &adapter.Usage{PromptTokens: 1000, CompletionTokens: 1000}

	result, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if result.Cost == nil {
		t.Fatal("expected a cost estimate when usage is reported")
	}
	// gemini-2.0-flash: 0.0001/1K prompt + 0.0004/1K completion.
	if got := result.Cost.Amount; got < 0.0004 || got > 0.0006 {
		t.Errorf("cost = %v, want about 0.0005", got)
	}
	if len(f.sink.records) != 1 || f.sink.records[0].CostUSD != result.Cost.Amount {
		t.Errorf("metrics cost = %+v", f.sink.records)
	}
}

func TestProcessTask_NoUsageNoCost(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ProcessTask(context.Background(), task.FromText("simple"), task.CallContext{})
	if err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if result.Cost != nil {
		t.Errorf("cost = %+v, want nil without usage", result.Cost)
	}
}

func intPtr(n int) *int { return &n }
