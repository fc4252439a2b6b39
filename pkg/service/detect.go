package service

import (
	"regexp"
	"strings"
)

// TaskKind classifies a detected task message for result formatting.
type TaskKind string

// Detected task kinds.
const (
	KindDocument  TaskKind = "document"
	KindAnalysis  TaskKind = "analysis"
	KindReasoning TaskKind = "reasoning"
	KindGeneral   TaskKind = "general"
)

// slashCommands maps explicit chat commands to task kinds.
var slashCommands = map[string]TaskKind{
	"/task":    KindGeneral,
	"/doc":     KindDocument,
	"/analyze": KindAnalysis,
	"/reason":  KindReasoning,
}

var taskPatterns = []struct {
	re   *regexp.Regexp
	kind TaskKind
}{
	{regexp.MustCompile(`(?i)^create\s+(a\s+|an\s+)?document\s+(titled|called|named)\b`), KindDocument},
	{regexp.MustCompile(`(?i)^(write|draft)\s+(a\s+|an\s+)?(report|document|memo)\b`), KindDocument},
	{regexp.MustCompile(`(?i)^analy[sz]e\s+(this|the|my)\s+data\b`), KindAnalysis},
	{regexp.MustCompile(`(?i)^(chart|plot|graph)\b`), KindAnalysis},
	{regexp.MustCompile(`(?i)\b(prove|derive|solve)\b.*\bstep\b`), KindReasoning},
	{regexp.MustCompile(`(?i)^\[task\]`), KindGeneral},
}

// DetectTask classifies an incoming chat message as a task or plain
// conversation. Slash commands and explicit task markup win; otherwise
// a small set of fixed patterns decides.
func DetectTask(message string) (TaskKind, bool) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return KindGeneral, false
	}

	if strings.HasPrefix(trimmed, "/") {
		cmd := trimmed
		if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
			cmd = trimmed[:idx]
		}
		if kind, ok := slashCommands[strings.ToLower(cmd)]; ok {
			return kind, true
		}
		return KindGeneral, false
	}

	for _, p := range taskPatterns {
		if p.re.MatchString(trimmed) {
			return p.kind, true
		}
	}

	return KindGeneral, false
}

var docTitleRe = regexp.MustCompile(`(?i)document\s+(?:titled|called|named)\s+"?([^"\n]+?)"?\s*$`)

// documentTitle extracts the title from a document-creation message.
func documentTitle(message string) string {
	if m := docTitleRe.FindStringSubmatch(message); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// StripCommand removes a leading slash command or task markup from a
// message, leaving the task text.
func StripCommand(message string) string {
	trimmed := strings.TrimSpace(message)
	if strings.HasPrefix(trimmed, "/") {
		if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
			return strings.TrimSpace(trimmed[idx+1:])
		}
		return ""
	}
	if rest, ok := strings.CutPrefix(trimmed, "[task]"); ok {
		return strings.TrimSpace(rest)
	}
	return trimmed
}
