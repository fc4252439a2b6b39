// Package metrics is the fire-and-forget metrics sink for routed tasks.
// Recording must never abort the caller's response.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Record is one routed-task observation.
type Record struct {
	TaskID        string
	Duration      time.Duration
	Model         string
	Complexity    int
	ReasoningType string
	Status        string
	CostUSD       float64
}

// Outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Sink consumes task records.
type Sink interface {
	Record(r Record)
}

// PromSink exports task records as Prometheus metrics.
type PromSink struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	complexity   prometheus.Histogram
	costTotal    *prometheus.CounterVec
}

// NewPromSink creates and registers the task metrics on a registry.
func NewPromSink(registry *prometheus.Registry) *PromSink {
	s := &PromSink{
		tasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskgate",
				Name:      "tasks_total",
				Help:      "Total number of tasks routed",
			},
			[]string{"model", "reasoning_type", "status"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskgate",
				Name:      "task_duration_seconds",
				Help:      "Duration of routed tasks in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		complexity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "taskgate",
				Name:      "task_complexity",
				Help:      "Complexity score distribution of routed tasks",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskgate",
				Name:      "task_cost_usd_total",
				Help:      "Estimated provider spend in USD",
			},
			[]string{"model"},
		),
	}

	registry.MustRegister(s.tasksTotal, s.taskDuration, s.complexity, s.costTotal)
	return s
}

// Record observes one task.
func (s *PromSink) Record(r Record) {
	s.tasksTotal.WithLabelValues(r.Model, r.ReasoningType, r.Status).Inc()
	if r.Model != "" {
		s.taskDuration.WithLabelValues(r.Model).Observe(r.Duration.Seconds())
	}
	if r.CostUSD > 0 {
		s.costTotal.WithLabelValues(r.Model).Add(r.CostUSD)
	}
	s.complexity.Observe(float64(r.Complexity))
}

// NopSink discards all records.
type NopSink struct{}

// Record does nothing.
func (NopSink) Record(Record) {}
