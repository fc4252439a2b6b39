// Package analyze turns raw tasks into routing signals: a weighted
// complexity score, a reasoning-type classification, and the merged
// analysis record the router dispatches on.
package analyze

import (
	"github.com/zen-systems/taskgate/pkg/task"
)

// Model requirement tags derived from an analysis. Advisory metadata:
// dispatch does not consult them.
const (
	RequirementHighCapacity      = "high-capacity"
	RequirementContextAware      = "context-aware"
	RequirementTemporalReasoning = "temporal-reasoning"
)

// TaskAnalysis aggregates complexity and reasoning results for one task.
// Created per call and discarded after routing.
type TaskAnalysis struct {
	Complexity          int                 `json:"complexity"`
	ComplexityBreakdown ComplexityBreakdown `json:"complexity_breakdown"`
	ReasoningType       ReasoningType       `json:"reasoning_type"`
	SecondaryTypes      []ReasoningType     `json:"secondary_types,omitempty"`
	TypeConfidence      float64             `json:"type_confidence"`
	RequiresStepwise    bool                `json:"requires_stepwise"`
	ContextDependency   float64             `json:"context_dependency"`
	TemporalAspect      bool                `json:"temporal_aspect"`
	ModelRequirements   []string            `json:"model_requirements,omitempty"`
}

// AnalyzeTask scores and classifies a task. The complexity scorer and
// reasoning analyzer have no data dependency and run concurrently; both
// must complete before the merge.
func AnalyzeTask(t task.Task) TaskAnalysis {
	scoreCh := make(chan ComplexityScore, 1)
	reasoningCh := make(chan ReasoningAnalysis, 1)

	go func() { scoreCh <- ScoreTask(t) }()
	go func() { reasoningCh <- DetermineReasoningRequirements(t) }()

	score := <-scoreCh
	reasoning := <-reasoningCh

	return TaskAnalysis{
		Complexity:          score.Score,
		ComplexityBreakdown: score.Breakdown,
		ReasoningType:       reasoning.Type,
		SecondaryTypes:      reasoning.SecondaryTypes,
		TypeConfidence:      reasoning.TypeConfidence,
		RequiresStepwise:    reasoning.RequiresStepwise,
		ContextDependency:   reasoning.ContextDependency,
		TemporalAspect:      reasoning.TemporalAspect,
		ModelRequirements:   deriveRequirements(score, reasoning),
	}
}

func deriveRequirements(score ComplexityScore, reasoning ReasoningAnalysis) []string {
	var reqs []string
	if score.Score > 75 {
		reqs = append(reqs, RequirementHighCapacity)
	}
	if reasoning.ContextDependency > 0.6 {
		reqs = append(reqs, RequirementContextAware)
	}
	if reasoning.TemporalAspect {
		reqs = append(reqs, RequirementTemporalReasoning)
	}
	return reqs
}
