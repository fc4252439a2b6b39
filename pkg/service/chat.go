package service

import (
	"context"

	"github.com/zen-systems/taskgate/pkg/session"
	"github.com/zen-systems/taskgate/pkg/task"
)

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Display string   `json:"display"`
	Kind    TaskKind `json:"kind"`
	IsTask  bool     `json:"is_task"`
	Result  *Result  `json:"result,omitempty"`
}

// ProcessChat handles one chat-mode message: it loads the session
// history, classifies the message as chat or task, routes it, and
// appends both turns to the session. Session failures never surface;
// the turn proceeds with an empty history.
func (s *Service) ProcessChat(ctx context.Context, sessionID, message string, call task.CallContext) (*ChatResult, error) {
	history, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		s.log.WithError(err).Warn("session load failed, starting fresh")
		history = nil
	}
	call.History = append(session.Truncate(history, s.historyLimit), call.History...)

	kind, isTask := DetectTask(message)
	if kind == KindReasoning && isTask {
		call.RequiresReasoning = true
	}

	t := task.FromText(StripCommand(message))
	if kind == KindDocument && isTask {
		t.Action = ActionCreateDocument
		t.Metadata = map[string]any{"title": documentTitle(message)}
	}

	result, err := s.ProcessTask(ctx, t, call)
	if err != nil {
		return nil, err
	}

	display := FormatResult(kind, result)

	s.appendTurn(ctx, sessionID, message, display)

	return &ChatResult{
		Display: display,
		Kind:    kind,
		IsTask:  isTask,
		Result:  result,
	}, nil
}

func (s *Service) appendTurn(ctx context.Context, sessionID, userMessage, reply string) {
	if err := s.sessions.Append(ctx, sessionID, task.RoleUser, userMessage); err != nil {
		s.log.WithError(err).Warn("failed to persist user message")
	}
	if err := s.sessions.Append(ctx, sessionID, task.RoleAssistant, reply); err != nil {
		s.log.WithError(err).Warn("failed to persist assistant message")
	}
}
