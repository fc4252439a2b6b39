package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var chartRefRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)|https?://\S+\.(?:png|svg)`)

// FormatResult renders a task result as a display string for the given
// task kind.
func FormatResult(kind TaskKind, result *Result) string {
	if result == nil {
		return ""
	}

	switch kind {
	case KindDocument:
		if result.Document != nil {
			return fmt.Sprintf("Created document %q: %s", result.Document.Title, result.Document.URL)
		}
	case KindReasoning:
		if result.Response != nil && len(result.Response.Reasoning) > 0 {
			var sb strings.Builder
			for i, step := range result.Response.Reasoning {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
			}
			sb.WriteString("\n")
			sb.WriteString(result.Response.Content)
			return sb.String()
		}
	case KindAnalysis:
		if result.Response != nil {
			content := result.Response.Content
			if refs := chartRefRe.FindAllString(content, -1); len(refs) > 0 {
				return content + "\n\nCharts:\n" + strings.Join(refs, "\n")
			}
			return content
		}
	}

	if result.Response != nil && result.Response.Content != "" {
		return result.Response.Content
	}

	// Nothing displayable; fall back to a JSON dump.
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
