package session

import (
	"context"
	"sync"
	"time"

	"github.com/zen-systems/taskgate/pkg/task"
)

// MemoryStore is an in-process session store for tests and ephemeral
// runs. Writers to the same session race last-write-wins, matching the
// durable store's semantics.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]task.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]task.Message)}
}

// Load returns a copy of the session's history.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]task.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.sessions[sessionID]
	out := make([]task.Message, len(history))
	copy(out, history)
	return out, nil
}

// Append adds one message to a session.
func (s *MemoryStore) Append(_ context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], task.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	return nil
}
