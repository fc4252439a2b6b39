package analyze

import (
	"math"
	"regexp"

	"github.com/zen-systems/taskgate/pkg/task"
)

// ComplexityScore is a synthetic 0-100 estimate of how demanding a task
// is, with the per-component breakdown used to produce it.
type ComplexityScore struct {
	Score     int                 `json:"score"`
	Breakdown ComplexityBreakdown `json:"breakdown"`
}

// ComplexityBreakdown exposes the sub-scores and their weights.
type ComplexityBreakdown struct {
	Components ComplexityComponents `json:"components"`
	Weights    ComplexityWeights    `json:"weights"`
}

// ComplexityComponents holds the five independent sub-scores.
type ComplexityComponents struct {
	Length    int `json:"length"`
	Code      int `json:"code"`
	Terms     int `json:"terms"`
	Structure int `json:"structure"`
	Context   int `json:"context"`
}

// ComplexityWeights holds the fixed component weights.
type ComplexityWeights struct {
	Length    float64 `json:"length"`
	Code      float64 `json:"code"`
	Terms     float64 `json:"terms"`
	Structure float64 `json:"structure"`
	Context   float64 `json:"context"`
}

var defaultWeights = ComplexityWeights{
	Length:    0.30,
	Code:      0.25,
	Terms:     0.20,
	Structure: 0.15,
	Context:   0.10,
}

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]+`")

	technicalTermsRe = regexp.MustCompile(`(?i)\b(algorithm|concurrency|microservice|database|distributed|optimization|architecture|kubernetes|encryption|compiler|asynchronous|latency|throughput|scalability|refactor|regression|neural|transformer|protocol|middleware)\b`)

	listItemRe = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s`)
	headingRe  = regexp.MustCompile(`(?m)^#{1,6}\s`)
	pipeLineRe = regexp.MustCompile(`(?m)^\s*\|.*\|`)
)

// ScoreTask computes the weighted complexity score for a task. It never
// fails: content it cannot interpret is serialized and scored as text.
func ScoreTask(t task.Task) ComplexityScore {
	text := t.Text()

	components := ComplexityComponents{
		Length:    lengthScore(len(text)),
		Code:      codeScore(text),
		Terms:     termScore(text),
		Structure: structureScore(text),
		Context:   contextScore(t),
	}

	weighted := float64(components.Length)*defaultWeights.Length +
		float64(components.Code)*defaultWeights.Code +
		float64(components.Terms)*defaultWeights.Terms +
		float64(components.Structure)*defaultWeights.Structure +
		float64(components.Context)*defaultWeights.Context

	score := int(math.Round(weighted))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ComplexityScore{
		Score: score,
		Breakdown: ComplexityBreakdown{
			Components: components,
			Weights:    defaultWeights,
		},
	}
}

// ladder maps a value onto a non-decreasing step function: scores[i] is
// returned for the first breakpoint the value does not exceed, and the
// last score when it exceeds them all.
func ladder(value float64, breaks []float64, scores []int) int {
	for i, b := range breaks {
		if value <= b {
			return scores[i]
		}
	}
	return scores[len(scores)-1]
}

func lengthScore(chars int) int {
	return ladder(float64(chars), []float64{100, 500, 1000, 3000}, []int{10, 30, 50, 70, 90})
}

func codeScore(text string) int {
	if len(text) == 0 {
		return 20
	}
	codeChars := 0
	stripped := fencedCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		codeChars += len(m)
		return ""
	})
	for _, m := range inlineCodeRe.FindAllString(stripped, -1) {
		codeChars += len(m)
	}
	ratio := float64(codeChars) / float64(len(text))
	return ladder(ratio, []float64{0.1, 0.3, 0.5, 0.7}, []int{20, 40, 60, 80, 95})
}

func termScore(text string) int {
	hits := len(technicalTermsRe.FindAllString(text, -1))
	return ladder(float64(hits), []float64{0, 3, 6, 10}, []int{10, 30, 50, 70, 90})
}

func structureScore(text string) int {
	elements := len(listItemRe.FindAllString(text, -1)) +
		len(headingRe.FindAllString(text, -1)) +
		len(pipeLineRe.FindAllString(text, -1))/3
	return ladder(float64(elements), []float64{3, 10, 20, 30}, []int{20, 40, 60, 80, 95})
}

func contextScore(t task.Task) int {
	if !t.HasContextualFields() {
		return 20
	}
	if len(t.Context) > 0 {
		return ladder(float64(len(t.Context)), []float64{2, 5, 10}, []int{30, 50, 70, 90})
	}
	return 50
}
