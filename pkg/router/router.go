// Package router selects a provider tier from a task analysis and a
// threshold table, invokes it, and retries once against the cheapest
// tier on any provider error.
package router

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/analyze"
	"github.com/zen-systems/taskgate/pkg/task"
)

// Result is the outcome of one routed invocation.
type Result struct {
	Response     *adapter.Response `json:"response"`
	Tier         Tier              `json:"tier"`
	Model        string            `json:"model"`
	FallbackUsed bool              `json:"fallback_used"`
}

// Router dispatches tasks to provider adapters by tier.
type Router struct {
	adapters map[string]adapter.Adapter
	log      logrus.FieldLogger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// New creates a router over the given adapter registry. The registry
// must cover every adapter named in the tier table.
func New(adapters map[string]adapter.Adapter, opts ...Option) *Router {
	r := &Router{
		adapters: adapters,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Adapter returns a registered adapter by name.
func (r *Router) Adapter(name string) (adapter.Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Route dispatches a single invocation to the tier selected for the
// analysis. No retry; any provider error is returned as-is.
func (r *Router) Route(ctx context.Context, t task.Task, analysis analyze.TaskAnalysis, th Thresholds, call task.CallContext) (*Result, error) {
	tier := TierFor(analysis, th)
	return r.invoke(ctx, tier, t, call)
}

// RouteWithFallback dispatches with the at-most-one-retry policy: any
// error from the selected provider triggers exactly one substitute call
// to the cheapest tier. A fallback failure propagates to the caller.
func (r *Router) RouteWithFallback(ctx context.Context, t task.Task, analysis analyze.TaskAnalysis, th Thresholds, call task.CallContext) (*Result, error) {
	tier := TierFor(analysis, th)

	result, err := r.invoke(ctx, tier, t, call)
	if err == nil {
		return result, nil
	}

	r.log.WithFields(logrus.Fields{
		"tier":      tier,
		"transient": adapter.IsTransient(err),
	}).WithError(err).Warn("primary provider failed, falling back")

	fallback, fbErr := r.invoke(ctx, fallbackTier, t, call)
	if fbErr != nil {
		return nil, fmt.Errorf("fallback after %s tier failure: %w", tier, fbErr)
	}
	fallback.FallbackUsed = true
	return fallback, nil
}

// RouteTo dispatches to a named adapter, bypassing tier selection. An
// empty model uses the adapter's first listed model. No fallback: an
// explicit override never switches providers behind the caller's back.
func (r *Router) RouteTo(ctx context.Context, adapterName, model string, t task.Task, call task.CallContext) (*Result, error) {
	a, ok := r.adapters[adapterName]
	if !ok || a == nil {
		return nil, fmt.Errorf("no adapter registered for %q", adapterName)
	}
	if model == "" {
		if models := a.Models(); len(models) > 0 {
			model = models[0]
		}
	}

	resp, err := a.Invoke(ctx, model, t, call)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response: resp,
		Model:    model,
	}, nil
}

func (r *Router) invoke(ctx context.Context, tier Tier, t task.Task, call task.CallContext) (*Result, error) {
	target := TargetFor(tier)
	a, ok := r.adapters[target.Adapter]
	if !ok || a == nil {
		return nil, fmt.Errorf("no adapter registered for %q (tier %s)", target.Adapter, tier)
	}

	resp, err := a.Invoke(ctx, target.Model, t, call)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response: resp,
		Tier:     tier,
		Model:    target.Model,
	}, nil
}
