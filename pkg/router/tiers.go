package router

import (
	"github.com/zen-systems/taskgate/pkg/analyze"
)

// Tier is one of the routing buckets, cheapest to most capable, plus
// the reasoning specialist.
type Tier string

// Routing tiers.
const (
	TierFlash     Tier = "flash"
	TierPro       Tier = "pro"
	TierSonnet    Tier = "sonnet"
	TierOpus      Tier = "opus"
	TierReasoning Tier = "reasoning"
)

// Target names the adapter and model behind one tier.
type Target struct {
	Adapter string
	Model   string
}

// tierTargets is the static tier table. Only the numeric threshold
// boundaries are configurable at runtime, not this mapping.
var tierTargets = map[Tier]Target{
	TierFlash:     {Adapter: "google", Model: "gemini-2.0-flash"},
	TierPro:       {Adapter: "google", Model: "gemini-2.0-pro"},
	TierSonnet:    {Adapter: "anthropic", Model: "claude-sonnet-4-20250514"},
	TierOpus:      {Adapter: "anthropic", Model: "claude-opus-4-20250514"},
	TierReasoning: {Adapter: "deepseek", Model: "deepseek-reasoner"},
}

// fallbackTier is the single substitute target used after any primary
// provider error.
const fallbackTier = TierFlash

// TierFor selects the routing tier for an analysis. The stepwise flag
// overrides the numeric score; otherwise the score is compared against
// the boundaries in ascending order, so exactly one tier matches for
// every score.
func TierFor(analysis analyze.TaskAnalysis, th Thresholds) Tier {
	if analysis.RequiresStepwise {
		return TierReasoning
	}
	switch {
	case analysis.Complexity <= th.Simple:
		return TierFlash
	case analysis.Complexity <= th.Medium:
		return TierPro
	case analysis.Complexity <= th.Complex:
		return TierSonnet
	default:
		return TierOpus
	}
}

// TargetFor returns the static target behind a tier.
func TargetFor(tier Tier) Target {
	return tierTargets[tier]
}

// Tiers lists all tiers in ascending capability order.
func Tiers() []Tier {
	return []Tier{TierFlash, TierPro, TierSonnet, TierOpus, TierReasoning}
}
