// Package session persists per-session conversation history. Stores
// must treat missing or corrupt sessions as empty rather than failing
// the call that touched them.
package session

import (
	"context"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Store is the session persistence contract.
type Store interface {
	// Load returns the ordered history for a session. A missing or
	// unreadable session yields an empty history, not an error.
	Load(ctx context.Context, sessionID string) ([]task.Message, error)

	// Append adds one message to a session's history.
	Append(ctx context.Context, sessionID, role, content string) error
}

// Truncate keeps the most recent n messages of a history.
func Truncate(history []task.Message, n int) []task.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
