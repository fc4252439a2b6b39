package analyze

import (
	"strings"
	"testing"

	"github.com/zen-systems/taskgate/pkg/task"
)

func TestDetermineReasoningRequirements_NoSignals(t *testing.T) {
	analysis := DetermineReasoningRequirements(task.FromText("hello friend"))

	if analysis.Type != ReasoningNone {
		t.Errorf("type = %s, want %s", analysis.Type, ReasoningNone)
	}
	if analysis.TypeConfidence != 0 {
		t.Errorf("confidence = %f, want 0", analysis.TypeConfidence)
	}
	if len(analysis.SecondaryTypes) != 0 {
		t.Errorf("secondary types = %v, want none", analysis.SecondaryTypes)
	}
}

func TestDetermineReasoningRequirements_CausalDominates(t *testing.T) {
	analysis := DetermineReasoningRequirements(
		task.FromText("this happens because the cache fills up and leads to evictions"))

	if analysis.Type != ReasoningCausal {
		t.Errorf("type = %s, want %s", analysis.Type, ReasoningCausal)
	}
	if analysis.TypeConfidence != 1.0 {
		t.Errorf("confidence = %f, want 1.0", analysis.TypeConfidence)
	}
}

func TestDetermineReasoningRequirements_TieBrokenByDeclarationOrder(t *testing.T) {
	// One deductive hit and one causal hit; deductive is declared first.
	analysis := DetermineReasoningRequirements(task.FromText("therefore it broke due to heat"))

	if analysis.Type != ReasoningDeductive {
		t.Errorf("type = %s, want %s", analysis.Type, ReasoningDeductive)
	}
	if len(analysis.SecondaryTypes) != 1 || analysis.SecondaryTypes[0] != ReasoningCausal {
		t.Errorf("secondary types = %v, want [%s]", analysis.SecondaryTypes, ReasoningCausal)
	}
}

func TestDetermineReasoningRequirements_AtMostTwoSecondaries(t *testing.T) {
	analysis := DetermineReasoningRequirements(task.FromText(
		"therefore the pattern suggests it is similar to the probability of a proof"))

	if len(analysis.SecondaryTypes) > 2 {
		t.Errorf("secondary types = %v, want at most 2", analysis.SecondaryTypes)
	}
}

func TestRequiresStepwise(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"explicit indicator", "solve this step by step", true},
		{"show your work", "compute the answer and show your work", true},
		{"math and logic hits combine", "calculate the equation", true},
		{"single analytical hit insufficient", "calculate the total", false},
		{"plain request", "write a short poem", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := DetermineReasoningRequirements(task.FromText(tt.text))
			if analysis.RequiresStepwise != tt.expected {
				t.Errorf("RequiresStepwise = %v, want %v", analysis.RequiresStepwise, tt.expected)
			}
		})
	}
}

func TestContextDependency(t *testing.T) {
	withContext := task.Task{Content: "continue", Context: map[string]any{"doc": "x"}}
	if got := DetermineReasoningRequirements(withContext).ContextDependency; got != 0.8 {
		t.Errorf("context-object dependency = %f, want 0.8", got)
	}

	referential := task.FromText("as stated earlier in the previous section")
	got := DetermineReasoningRequirements(referential).ContextDependency
	if got < 0.59 || got > 0.61 {
		t.Errorf("referential dependency = %f, want 0.6", got)
	}

	saturated := task.FromText(strings.Repeat("the previous result ", 10))
	if got := DetermineReasoningRequirements(saturated).ContextDependency; got != 1.0 {
		t.Errorf("saturated dependency = %f, want capped at 1.0", got)
	}
}

func TestTemporalAspect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"temporal category keyword", "what happened before the crash", true},
		{"time word", "finish this by the deadline", true},
		{"no temporal signal", "compose a haiku about rivers", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := DetermineReasoningRequirements(task.FromText(tt.text))
			if analysis.TemporalAspect != tt.expected {
				t.Errorf("TemporalAspect = %v, want %v", analysis.TemporalAspect, tt.expected)
			}
		})
	}
}

func TestDetermineReasoningRequirements_Deterministic(t *testing.T) {
	tk := task.FromText("therefore the pattern implies a proof, step by step, because of the sequence")
	first := DetermineReasoningRequirements(tk)
	for i := 0; i < 10; i++ {
		got := DetermineReasoningRequirements(tk)
		if got.Type != first.Type || got.TypeConfidence != first.TypeConfidence ||
			got.RequiresStepwise != first.RequiresStepwise {
			t.Fatalf("analysis not deterministic: %+v vs %+v", got, first)
		}
	}
}
