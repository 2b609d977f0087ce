// Package sanitize derives deliverable content from raw model output. Display
// cleaning and file-write cleaning are separate paths with different loss
// tolerances: display may drop thoughts and command markers, while file-write
// cleaning must produce byte-exact replacement content or refuse entirely.
package sanitize

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Jabril-Mahamud/kuzco/internal/parser"
)

// Result is the outcome of cleaning raw text for a file write. Valid == false
// must block the write; Reason is a human-facing diagnosis. Warnings are
// advisory and never block.
type Result struct {
	Valid    bool
	Content  string
	Reason   string
	Warnings []string
}

// Display cleans a response for terminal display: command markers are
// dropped, code segments are re-fenced with their recorded language, and
// thought segments are included only when showThoughts is set. Running the
// result through Display again is a no-op.
func Display(p *parser.Parser, response string, showThoughts bool) string {
	segments := p.Parse(response)

	var parts []string
	for _, seg := range segments {
		switch seg.Kind {
		case parser.Thought:
			if showThoughts {
				parts = append(parts, seg.Content)
			}
		case parser.Command:
			// Raw command markers are never shown.
		case parser.Code:
			lang := seg.Metadata["language"]
			parts = append(parts, fmt.Sprintf("```%s\n%s\n```", lang, seg.Content))
		default:
			parts = append(parts, seg.Content)
		}
	}

	return strings.Join(parts, "\n\n")
}

// File-write cleaning is family-agnostic: any thought wrapper a model might
// use must be stripped, or code-like reasoning could survive into a file.
var thoughtWrapperRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	regexp.MustCompile(`(?is)<thoughts>.*?</thoughts>`),
	regexp.MustCompile(`(?is)<reasoning>.*?</reasoning>`),
	regexp.MustCompile(`(?is)<reflection>.*?</reflection>`),
	regexp.MustCompile(`(?is)<planning>.*?</planning>`),
	regexp.MustCompile(`(?is)<analysis>.*?</analysis>`),
}

var (
	taggedFenceRe = regexp.MustCompile("(?s)```[\\w]*\\n(.*?)```")
	bareFenceRe   = regexp.MustCompile("(?s)```\\n?(.*?)```")
)

var leadInRes = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^Here's the .*?:\n+`),
	regexp.MustCompile(`(?im)^Here is the .*?:\n+`),
	regexp.MustCompile(`(?im)^Modified content:\n+`),
	regexp.MustCompile(`(?im)^Updated file:\n+`),
	regexp.MustCompile(`(?im)^Fixed version:\n+`),
	regexp.MustCompile(`(?im)^Edited content:\n+`),
	regexp.MustCompile(`(?im)^The following.*?:\n+`),
	regexp.MustCompile(`(?im)^Below is.*?:\n+`),
}

// Separator lines are blanked rather than deleted with their newline: the
// trailing-explanation cue only fires after a blank line, and a separator
// between content and commentary has to leave one behind.
var separatorLineRe = regexp.MustCompile(`(?m)^[ \t]*---+[ \t]*$`)

var trailingExplanationRe = regexp.MustCompile(`(?i)\n\n(This\s|The\s+above|I've\s|Note\s|Notice|Explanation:|Changes:)`)

var excessNewlinesRe = regexp.MustCompile(`\n{3,}`)

// cleanStages is the fixed file-write cleaning pipeline. Order is load
// bearing: thought wrappers may contain fences, fences may contain lead-in
// lookalikes, and truncation must see the text after separators are blanked.
var cleanStages = []func(string) string{
	stripThoughtWrappers,
	unwrapCodeFences,
	stripLeadIns,
	truncateTrailingExplanation,
	collapseNewlines,
	strings.TrimSpace,
}

func stripThoughtWrappers(s string) string {
	for _, re := range thoughtWrapperRes {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

func unwrapCodeFences(s string) string {
	s = taggedFenceRe.ReplaceAllString(s, "$1")
	return bareFenceRe.ReplaceAllString(s, "$1")
}

func stripLeadIns(s string) string {
	for _, re := range leadInRes {
		s = re.ReplaceAllString(s, "")
	}
	return separatorLineRe.ReplaceAllString(s, "")
}

func truncateTrailingExplanation(s string) string {
	if loc := trailingExplanationRe.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

func collapseNewlines(s string) string {
	return excessNewlinesRe.ReplaceAllString(s, "\n\n")
}

// languageKeywords maps source extensions to structural keywords expected in
// non-trivial files of that language. Used only for the advisory check.
var languageKeywords = map[string][]string{
	".py":   {"def ", "class ", "import "},
	".go":   {"func ", "package ", "import "},
	".js":   {"function ", "const ", "let ", "=>"},
	".java": {"class ", "public ", "import "},
	".c":    {"#include", "int ", "void "},
	".cpp":  {"#include", "int ", "void "},
	".rs":   {"fn ", "use ", "struct "},
}

// CleanForFile cleans a raw response into replacement content for the file at
// path. It never returns an error: an unusable response comes back with
// Valid == false and the reason, and the caller must abort the write and show
// the raw response instead.
func CleanForFile(response, path string) Result {
	cleaned := response
	for _, stage := range cleanStages {
		cleaned = stage(cleaned)
	}

	if len(cleaned) < 10 {
		return Result{
			Valid:   false,
			Content: cleaned,
			Reason:  "content is effectively empty after cleaning",
		}
	}

	// Float comparison: integer division would round the threshold down and
	// accept boundary cases the 10% rule rejects.
	if float64(len(cleaned)) < 0.1*float64(len(response)) {
		return Result{
			Valid:   false,
			Content: cleaned,
			Reason:  "content reduced by more than 90% - likely over-cleaned",
		}
	}

	result := Result{Valid: true, Content: cleaned}

	ext := strings.ToLower(filepath.Ext(path))
	if keywords, ok := languageKeywords[ext]; ok && len(cleaned) > 50 {
		if !containsAny(cleaned, keywords) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("no %s structural keywords found in cleaned content", strings.TrimPrefix(ext, ".")))
		}
	}

	return result
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
