package analyze

import (
	"sort"
	"strings"

	"github.com/zen-systems/taskgate/pkg/task"
)

// ReasoningType labels the dominant kind of reasoning a task calls for.
type ReasoningType string

// Reasoning categories. ReasoningNone means no category matched.
const (
	ReasoningNone           ReasoningType = "none"
	ReasoningDeductive      ReasoningType = "deductive"
	ReasoningInductive      ReasoningType = "inductive"
	ReasoningAbductive      ReasoningType = "abductive"
	ReasoningCausal         ReasoningType = "causal"
	ReasoningAnalogical     ReasoningType = "analogical"
	ReasoningTemporal       ReasoningType = "temporal"
	ReasoningSpatial        ReasoningType = "spatial"
	ReasoningMathematical   ReasoningType = "mathematical"
	ReasoningLogical        ReasoningType = "logical"
	ReasoningCounterfactual ReasoningType = "counterfactual"
	ReasoningProbabilistic  ReasoningType = "probabilistic"
)

// ReasoningAnalysis captures a task's reasoning requirements.
type ReasoningAnalysis struct {
	Type              ReasoningType   `json:"type"`
	TypeConfidence    float64         `json:"type_confidence"`
	SecondaryTypes    []ReasoningType `json:"secondary_types,omitempty"`
	RequiresStepwise  bool            `json:"requires_stepwise"`
	ContextDependency float64         `json:"context_dependency"`
	TemporalAspect    bool            `json:"temporal_aspect"`
}

// reasoningCategory binds a category to its trigger phrases. The table
// is ordered; declaration order breaks score ties, and new categories
// are purely additive.
type reasoningCategory struct {
	Type     ReasoningType
	Keywords []string
}

var reasoningCategories = []reasoningCategory{
	{ReasoningDeductive, []string{"therefore", "it follows", "must be", "conclude", "given that", "implies"}},
	{ReasoningInductive, []string{"pattern", "generally", "trend", "usually", "in most cases"}},
	{ReasoningAbductive, []string{"best explanation", "most likely reason", "hypothesis", "could explain"}},
	{ReasoningCausal, []string{"because", "cause", "effect", "leads to", "results in", "due to"}},
	{ReasoningAnalogical, []string{"similar to", "analogy", "like a", "compare to", "resembles"}},
	{ReasoningTemporal, []string{"before", "after", "sequence", "timeline", "chronological", "during"}},
	{ReasoningSpatial, []string{"above", "below", "adjacent", "layout", "position", "spatial"}},
	{ReasoningMathematical, []string{"calculate", "equation", "formula", "integral", "derivative", "proof"}},
	{ReasoningLogical, []string{"if and only if", "logical", "premise", "boolean", "negation", "valid argument"}},
	{ReasoningCounterfactual, []string{"what if", "if instead", "had it been", "suppose", "imagine if"}},
	{ReasoningProbabilistic, []string{"probability", "likely", "chance", "odds", "random", "expected value"}},
}

var stepwiseIndicators = []string{
	"step by step",
	"step-by-step",
	"show your work",
	"explain your reasoning",
	"walk me through",
	"walk through",
	"break it down",
	"one step at a time",
}

var referentialPhrases = []string{
	"previous",
	"earlier",
	"as stated",
	"as mentioned",
	"aforementioned",
	"refer back",
	"as discussed",
	"as before",
	"the above",
}

var timeWords = []string{
	"today",
	"tomorrow",
	"yesterday",
	"deadline",
	"schedule",
	"duration",
}

type categoryScore struct {
	category reasoningCategory
	order    int
	hits     int
}

// DetermineReasoningRequirements classifies the reasoning a task needs.
// Pure and total: any task yields an analysis.
func DetermineReasoningRequirements(t task.Task) ReasoningAnalysis {
	text := strings.ToLower(t.Text())

	scores := make([]categoryScore, 0, len(reasoningCategories))
	total := 0
	for i, cat := range reasoningCategories {
		hits := 0
		for _, kw := range cat.Keywords {
			hits += strings.Count(text, kw)
		}
		if hits > 0 {
			scores = append(scores, categoryScore{category: cat, order: i, hits: hits})
			total += hits
		}
	}

	analysis := ReasoningAnalysis{
		Type:              ReasoningNone,
		RequiresStepwise:  requiresStepwise(text, scores),
		ContextDependency: contextDependency(t, text),
		TemporalAspect:    temporalAspect(text, scores),
	}

	if total == 0 {
		return analysis
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].hits == scores[j].hits {
			return scores[i].order < scores[j].order
		}
		return scores[i].hits > scores[j].hits
	})

	analysis.Type = scores[0].category.Type
	analysis.TypeConfidence = float64(scores[0].hits) / float64(total)
	for _, s := range scores[1:] {
		if len(analysis.SecondaryTypes) == 2 {
			break
		}
		analysis.SecondaryTypes = append(analysis.SecondaryTypes, s.category.Type)
	}

	return analysis
}

func requiresStepwise(text string, scores []categoryScore) bool {
	for _, indicator := range stepwiseIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	analytical := 0
	for _, s := range scores {
		if s.category.Type == ReasoningMathematical || s.category.Type == ReasoningLogical {
			analytical += s.hits
		}
	}
	return analytical >= 2
}

func contextDependency(t task.Task, text string) float64 {
	if len(t.Context) > 0 {
		return 0.8
	}
	dependency := 0.0
	for _, phrase := range referentialPhrases {
		dependency += 0.2 * float64(strings.Count(text, phrase))
	}
	if dependency > 1.0 {
		dependency = 1.0
	}
	return dependency
}

func temporalAspect(text string, scores []categoryScore) bool {
	for _, s := range scores {
		if s.category.Type == ReasoningTemporal {
			return true
		}
	}
	for _, word := range timeWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
