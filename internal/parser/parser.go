// Package parser classifies raw model output into typed segments. Models emit
// reasoning wrapped in family-specific markers, fenced code, and command
// declarations mixed into free text; everything downstream (display, file
// writes, the execution gate) consumes the classified segments instead of the
// raw string.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// SegmentKind classifies a parsed segment.
type SegmentKind int

const (
	Text SegmentKind = iota
	Thought
	Code
	Command
)

func (k SegmentKind) String() string {
	switch k {
	case Thought:
		return "thought"
	case Code:
		return "code"
	case Command:
		return "command"
	default:
		return "text"
	}
}

// Segment is one classified chunk of a model response. Segments are created
// in a single parse pass and not mutated afterwards.
type Segment struct {
	Kind     SegmentKind
	Content  string
	Metadata map[string]string
}

// CommandMarker is the canonical command-declaration prefix. Only lines
// starting with it (after trimming) are eligible for the execution gate.
const CommandMarker = "EXECUTE_COMMAND:"

var (
	fenceRe     = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	shellLineRe = regexp.MustCompile(`^\$\s+(.+)$`)
)

// Parser splits raw responses into segments using the pattern table of one
// model family. Construct once per model; Parse never fails.
type Parser struct {
	family Family
}

// New returns a parser for the given model name, falling back to the generic
// pattern table when the name matches no known family.
func New(modelName string) *Parser {
	return &Parser{family: DetectFamily(modelName)}
}

// NewForFamily returns a parser with an explicit family, used where the
// family is already resolved.
func NewForFamily(f Family) *Parser {
	return &Parser{family: f}
}

// Family reports the pattern table in use.
func (p *Parser) Family() Family {
	return p.family
}

// Parse splits a raw response into segments: one joined Thought segment (if
// any markers matched), a Code segment per fenced block, Command segments for
// declared commands, and a final Text segment holding the trimmed residue.
// Unterminated fences or thought markers are left in place and end up in the
// Text segment.
func (p *Parser) Parse(response string) []Segment {
	var segments []Segment
	remaining := response

	if thoughts, stripped, ok := p.extractThoughts(remaining); ok {
		segments = append(segments, Segment{Kind: Thought, Content: thoughts})
		remaining = stripped
	}

	for _, m := range fenceRe.FindAllStringSubmatch(remaining, -1) {
		language := m[1]
		if language == "" {
			language = "text"
		}
		segments = append(segments, Segment{
			Kind:     Code,
			Content:  strings.TrimSpace(m[2]),
			Metadata: map[string]string{"language": language},
		})
		// Remove by the exact matched substring, first occurrence only, so
		// duplicate fences are consumed left to right.
		remaining = strings.Replace(remaining, m[0], "", 1)
	}

	commands, remaining := extractCommandLines(remaining)
	for _, cmd := range commands {
		segments = append(segments, Segment{Kind: Command, Content: cmd})
	}

	if trimmed := strings.TrimSpace(remaining); trimmed != "" {
		segments = append(segments, Segment{Kind: Text, Content: trimmed})
	}

	return segments
}

// extractThoughts collects every thought-marker match for the family, joined
// with newlines, and returns the text with the matched spans stripped.
func (p *Parser) extractThoughts(text string) (thoughts, stripped string, found bool) {
	patterns := p.family.thoughtPatterns()

	var parts []string
	for _, pat := range patterns {
		for _, m := range pat.re.FindAllStringSubmatch(text, -1) {
			parts = append(parts, m[pat.thoughtGroup])
		}
	}
	if len(parts) == 0 {
		return "", text, false
	}

	stripped = text
	for _, pat := range patterns {
		replacement := ""
		if pat.keepGroup > 0 {
			// Terminators the pattern had to consume (see thoughtPattern)
			// are written back so surrounding text is unaffected.
			replacement = "${" + strconv.Itoa(pat.keepGroup) + "}"
		}
		stripped = pat.re.ReplaceAllString(stripped, replacement)
	}

	return strings.Join(parts, "\n"), stripped, true
}

// extractCommandLines pulls command declarations out of text. Lines with the
// canonical marker are removed; "$ cmd" lines are reported for display
// classification but kept in the text, since they are prose as far as the
// execution gate is concerned.
func extractCommandLines(text string) (commands []string, remaining string) {
	lines := strings.Split(text, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), CommandMarker) {
			cmd := strings.TrimSpace(strings.ReplaceAll(line, CommandMarker, ""))
			commands = append(commands, cmd)
			continue
		}
		kept = append(kept, line)
	}
	remaining = strings.Join(kept, "\n")

	for _, line := range strings.Split(remaining, "\n") {
		if m := shellLineRe.FindStringSubmatch(line); m != nil {
			commands = append(commands, m[1])
		}
	}

	return commands, remaining
}
