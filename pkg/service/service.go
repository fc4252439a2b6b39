// Package service is the orchestration façade: it analyzes a task,
// derives per-call thresholds, dispatches through the router with
// fallback, and records metrics on every outcome.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/analyze"
	"github.com/zen-systems/taskgate/pkg/docs"
	"github.com/zen-systems/taskgate/pkg/metrics"
	"github.com/zen-systems/taskgate/pkg/router"
	"github.com/zen-systems/taskgate/pkg/session"
	"github.com/zen-systems/taskgate/pkg/task"
)

// ActionCreateDocument short-circuits routing and delegates the task to
// the document-creation collaborator.
const ActionCreateDocument = "create_document"

// Result is the outcome of one processed task.
type Result struct {
	TaskID       string               `json:"task_id"`
	Task         task.Task            `json:"task"`
	Analysis     analyze.TaskAnalysis `json:"analysis"`
	Response     *adapter.Response    `json:"response,omitempty"`
	Tier         router.Tier          `json:"tier,omitempty"`
	Model        string               `json:"model,omitempty"`
	FallbackUsed bool                 `json:"fallback_used,omitempty"`
	Cost         *router.Cost         `json:"cost,omitempty"`
	Document     *docs.Document       `json:"document,omitempty"`
	Duration     time.Duration        `json:"duration"`
}

// Service owns the base threshold table and wires the routing core to
// its collaborators.
type Service struct {
	router     *router.Router
	thresholds *router.ThresholdTable
	documents  docs.Creator
	sessions   session.Store
	sink       metrics.Sink
	pricing    router.Pricing
	log        logrus.FieldLogger

	// historyLimit caps the history forwarded to providers in chat mode.
	historyLimit int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDocuments sets the document-creation collaborator.
func WithDocuments(c docs.Creator) ServiceOption {
	return func(s *Service) { s.documents = c }
}

// WithSessions sets the session store used by chat mode.
func WithSessions(store session.Store) ServiceOption {
	return func(s *Service) { s.sessions = store }
}

// WithMetrics sets the metrics sink.
func WithMetrics(sink metrics.Sink) ServiceOption {
	return func(s *Service) { s.sink = sink }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(log logrus.FieldLogger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithPricing replaces the per-model pricing table used for cost
// estimates.
func WithPricing(p router.Pricing) ServiceOption {
	return func(s *Service) { s.pricing = p }
}

// WithHistoryLimit caps the chat history forwarded to providers.
func WithHistoryLimit(n int) ServiceOption {
	return func(s *Service) { s.historyLimit = n }
}

// New creates a service over a router and a base threshold table.
func New(r *router.Router, base router.Thresholds, opts ...ServiceOption) *Service {
	s := &Service{
		router:       r,
		thresholds:   router.NewThresholdTable(base),
		sessions:     session.NewMemoryStore(),
		sink:         metrics.NopSink{},
		pricing:      router.DefaultPricing(),
		log:          logrus.StandardLogger(),
		historyLimit: 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Thresholds returns the current base threshold table.
func (s *Service) Thresholds() router.Thresholds {
	return s.thresholds.Snapshot()
}

// UpdateThresholds merges a partial override into the base table. This
// is the only sanctioned way to persist a threshold change across calls.
func (s *Service) UpdateThresholds(u router.ThresholdUpdate) error {
	return s.thresholds.Update(u)
}

// ApplyThresholds replaces the base table wholesale, used by config
// hot-reload.
func (s *Service) ApplyThresholds(t router.Thresholds) error {
	return s.thresholds.Update(router.ThresholdUpdate{
		Simple:  &t.Simple,
		Medium:  &t.Medium,
		Complex: &t.Complex,
	})
}

// AnalyzeOnly scores and classifies a task without dispatching it.
func (s *Service) AnalyzeOnly(t task.Task) analyze.TaskAnalysis {
	return analyze.AnalyzeTask(t)
}

// ProcessTask analyzes and routes one task. The caller's task is never
// mutated; the result carries an augmented copy with the complexity
// stamped. A metrics record is emitted on every outcome.
func (s *Service) ProcessTask(ctx context.Context, t task.Task, call task.CallContext) (*Result, error) {
	start := time.Now()

	taskID := t.ID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	if t.Action == ActionCreateDocument {
		return s.createDocument(ctx, taskID, t, start)
	}

	analysis := analyze.AnalyzeTask(t)
	if call.RequiresReasoning {
		analysis.RequiresStepwise = true
	}

	dynamic := s.thresholds.Snapshot().ForPriority(call.Priority)

	routed, err := s.router.RouteWithFallback(ctx, t, analysis, dynamic, call)
	duration := time.Since(start)

	var cost *router.Cost
	if err == nil && routed.Response != nil {
		if c, ok := router.EstimateCost(s.pricing, routed.Model, routed.Response.Usage); ok {
			cost = &c
		}
	}

	record := metrics.Record{
		TaskID:        taskID,
		Duration:      duration,
		Complexity:    analysis.Complexity,
		ReasoningType: string(analysis.ReasoningType),
		Status:        metrics.StatusSuccess,
	}
	if routed != nil {
		record.Model = routed.Model
	}
	if cost != nil {
		record.CostUSD = cost.Amount
	}
	if err != nil {
		record.Status = metrics.StatusError
	}
	s.sink.Record(record)

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"task_id":    taskID,
			"complexity": analysis.Complexity,
		}).WithError(err).Error("task routing failed")
		return nil, newProcessError(err, analysis)
	}

	s.log.WithFields(logrus.Fields{
		"task_id":    taskID,
		"tier":       routed.Tier,
		"model":      routed.Model,
		"complexity": analysis.Complexity,
		"reasoning":  analysis.ReasoningType,
		"fallback":   routed.FallbackUsed,
		"duration":   duration,
	}).Info("task routed")

	return &Result{
		TaskID:       taskID,
		Task:         t.WithComplexity(analysis.Complexity),
		Analysis:     analysis,
		Response:     routed.Response,
		Tier:         routed.Tier,
		Model:        routed.Model,
		FallbackUsed: routed.FallbackUsed,
		Cost:         cost,
		Duration:     duration,
	}, nil
}

// ProcessTaskWith dispatches a task to a named adapter, bypassing tier
// selection. The analysis still runs so the result and metrics carry
// it, but no fallback is attempted on failure.
func (s *Service) ProcessTaskWith(ctx context.Context, adapterName, model string, t task.Task, call task.CallContext) (*Result, error) {
	start := time.Now()

	taskID := t.ID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	analysis := analyze.AnalyzeTask(t)
	if call.RequiresReasoning {
		analysis.RequiresStepwise = true
	}

	routed, err := s.router.RouteTo(ctx, adapterName, model, t, call)
	duration := time.Since(start)

	var cost *router.Cost
	if err == nil && routed.Response != nil {
		if c, ok := router.EstimateCost(s.pricing, routed.Model, routed.Response.Usage); ok {
			cost = &c
		}
	}

	record := metrics.Record{
		TaskID:        taskID,
		Duration:      duration,
		Complexity:    analysis.Complexity,
		ReasoningType: string(analysis.ReasoningType),
		Status:        metrics.StatusSuccess,
	}
	if routed != nil {
		record.Model = routed.Model
	}
	if cost != nil {
		record.CostUSD = cost.Amount
	}
	if err != nil {
		record.Status = metrics.StatusError
	}
	s.sink.Record(record)

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"task_id": taskID,
			"adapter": adapterName,
		}).WithError(err).Error("direct dispatch failed")
		return nil, newProcessError(err, analysis)
	}

	s.log.WithFields(logrus.Fields{
		"task_id":    taskID,
		"adapter":    adapterName,
		"model":      routed.Model,
		"complexity": analysis.Complexity,
		"duration":   duration,
	}).Info("task dispatched directly")

	return &Result{
		TaskID:   taskID,
		Task:     t.WithComplexity(analysis.Complexity),
		Analysis: analysis,
		Response: routed.Response,
		Model:    routed.Model,
		Cost:     cost,
		Duration: duration,
	}, nil
}

func (s *Service) createDocument(ctx context.Context, taskID string, t task.Task, start time.Time) (*Result, error) {
	if s.documents == nil {
		err := newProcessError(errNoDocumentCreator, analyze.TaskAnalysis{})
		s.sink.Record(metrics.Record{TaskID: taskID, Duration: time.Since(start), Status: metrics.StatusError})
		return nil, err
	}

	title, folder := documentParams(t)
	doc, err := s.documents.CreateDocument(ctx, title, t.Text(), folder)
	duration := time.Since(start)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.sink.Record(metrics.Record{TaskID: taskID, Duration: duration, Status: status})

	if err != nil {
		return nil, newProcessError(err, analyze.TaskAnalysis{})
	}

	return &Result{
		TaskID:   taskID,
		Task:     t,
		Document: doc,
		Duration: duration,
	}, nil
}

// documentParams pulls title and folder hint from task metadata,
// defaulting the title to the first line of the content.
func documentParams(t task.Task) (title, folder string) {
	if v, ok := t.Metadata["title"].(string); ok {
		title = v
	}
	if v, ok := t.Metadata["folder"].(string); ok {
		folder = v
	}
	if title == "" {
		title = firstLine(t.Text())
	}
	return title, folder
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}
