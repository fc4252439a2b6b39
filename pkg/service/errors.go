package service

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/zen-systems/taskgate/pkg/analyze"
)

var errNoDocumentCreator = errors.New("no document creator configured")

// ProcessError wraps a failed task with the analysis computed before
// the failure, so callers can debug without re-scoring.
type ProcessError struct {
	Timestamp time.Time
	Analysis  analyze.TaskAnalysis
	Stack     string
	Err       error
}

func newProcessError(err error, analysis analyze.TaskAnalysis) *ProcessError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &ProcessError{
		Timestamp: time.Now().UTC(),
		Analysis:  analysis,
		Stack:     string(buf[:n]),
		Err:       err,
	}
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("task processing failed at %s: %v", e.Timestamp.Format(time.RFC3339), e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
