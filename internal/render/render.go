// Package render formats parsed responses and file panels for the plain
// terminal commands, outside the chat TUI.
package render

import (
	"fmt"
	"strings"

	"github.com/Jabril-Mahamud/kuzco/internal/parser"
	"github.com/Jabril-Mahamud/kuzco/ui/styles"
)

// Segments renders parsed segments for terminal output. Thoughts are dimmed
// and shown only when showThoughts is set; command markers never appear.
func Segments(segments []parser.Segment, showThoughts bool) string {
	var b strings.Builder

	thoughtStyle := styles.ThoughtStyle()
	codeStyle := styles.CodeStyle()

	for _, seg := range segments {
		switch seg.Kind {
		case parser.Thought:
			if showThoughts {
				b.WriteString(thoughtStyle.Render(seg.Content) + "\n\n")
			}
		case parser.Command:
			// Candidates are surfaced by the gate, not inline.
		case parser.Code:
			label := seg.Metadata["language"]
			if label == "" {
				label = "code"
			}
			b.WriteString(styles.PanelTitleStyle().Render(label) + "\n")
			b.WriteString(codeStyle.Render(seg.Content) + "\n\n")
		default:
			b.WriteString(seg.Content + "\n\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Thought renders a single reasoning fragment dimmed, used while streaming.
func Thought(text string) string {
	return styles.ThoughtStyle().Render(text)
}

// Panel frames content under a title, used for file previews and reports.
func Panel(title, content string) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitleStyle().Render(title) + "\n")
	b.WriteString(styles.PanelStyle().Render(content))
	return b.String()
}

// Preview truncates content for the pre-analysis panel. Files over the
// threshold show the head with a truncation note; the model still receives
// the full content.
func Preview(content string, threshold int) string {
	if threshold <= 0 || len(content) <= threshold {
		return content
	}
	return fmt.Sprintf("%s\n... (%d more bytes)", content[:threshold], len(content)-threshold)
}
