package router

import (
	"fmt"
	"sync"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Thresholds partitions the 0-100 complexity range into four tiers.
// Invariant: Simple < Medium < Complex.
type Thresholds struct {
	Simple  int `json:"simple" yaml:"simple"`
	Medium  int `json:"medium" yaml:"medium"`
	Complex int `json:"complex" yaml:"complex"`
}

// DefaultThresholds returns the base threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{Simple: 30, Medium: 60, Complex: 85}
}

// ForPriority derives a per-call copy adjusted for the caller's priority
// hint. High priority lowers the simple boundary, low priority raises
// the medium boundary; the complex boundary is never adjusted.
func (t Thresholds) ForPriority(p task.Priority) Thresholds {
	switch p {
	case task.PriorityHigh:
		t.Simple -= 10
	case task.PriorityLow:
		t.Medium += 15
	}
	return t
}

// ThresholdUpdate is a partial threshold override. Nil fields retain
// their prior values.
type ThresholdUpdate struct {
	Simple  *int `json:"simple,omitempty" yaml:"simple,omitempty"`
	Medium  *int `json:"medium,omitempty" yaml:"medium,omitempty"`
	Complex *int `json:"complex,omitempty" yaml:"complex,omitempty"`
}

// ThresholdTable is the mutable base table shared across calls. Reads
// snapshot the table; updates are copy-on-write under a lock so that
// concurrent dispatches and updates never observe a half-merged table.
type ThresholdTable struct {
	mu   sync.RWMutex
	base Thresholds
}

// NewThresholdTable creates a table with the given base values.
func NewThresholdTable(base Thresholds) *ThresholdTable {
	return &ThresholdTable{base: base}
}

// Snapshot returns the current base thresholds by value.
func (tt *ThresholdTable) Snapshot() Thresholds {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return tt.base
}

// Update merges the non-nil fields into the base table. Updates that
// would break the Simple < Medium < Complex ordering are rejected and
// leave the table unchanged.
func (tt *ThresholdTable) Update(u ThresholdUpdate) error {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	merged := tt.base
	if u.Simple != nil {
		merged.Simple = *u.Simple
	}
	if u.Medium != nil {
		merged.Medium = *u.Medium
	}
	if u.Complex != nil {
		merged.Complex = *u.Complex
	}

	if merged.Simple >= merged.Medium || merged.Medium >= merged.Complex {
		return fmt.Errorf("invalid threshold ordering: simple=%d medium=%d complex=%d",
			merged.Simple, merged.Medium, merged.Complex)
	}

	tt.base = merged
	return nil
}
