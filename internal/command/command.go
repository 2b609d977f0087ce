// Package command extracts shell command candidates from model responses,
// classifies their risk, and enforces the confirmation protocol that stands
// between a suggestion and a running subprocess.
package command

import (
	"strings"

	"github.com/Jabril-Mahamud/kuzco/internal/parser"
)

// Candidate is one extracted command with its risk classification. Warnings
// are ordered as the checks that produced them ran.
type Candidate struct {
	Text              string
	RequiresElevation bool
	Destructive       bool
	Warnings          []string
}

// dangerousPatterns is the fixed destructive-command table. The literal set
// is preserved from the safety validator it originates from, false positives
// included (a bare ">" inside a quoted string still warns).
var dangerousPatterns = []struct {
	pattern string
	warning string
}{
	{"rm -rf", "recursive deletion - removes entire directory trees"},
	{"dd if=", "raw disk operation - can overwrite entire disks"},
	{"mkfs", "format operation - erases the filesystem"},
	{"> /dev/", "writes directly to a device node"},
	{"fork()", "fork bomb risk"},
	{":(){ :|:& }", "fork bomb detected"},
}

// Extract returns the command candidates declared in a response via the
// EXECUTE_COMMAND marker, in order, duplicates preserved. Free-form
// shell-looking lines are not candidates; only the explicit marker reaches
// the execution gate.
func Extract(response string) []string {
	if !strings.Contains(response, parser.CommandMarker) {
		return nil
	}

	var commands []string
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), parser.CommandMarker) {
			cmd := strings.TrimSpace(strings.ReplaceAll(line, parser.CommandMarker, ""))
			commands = append(commands, cmd)
		}
	}
	return commands
}

// Classify evaluates one command against the elevation prefixes and the
// dangerous-pattern table.
func Classify(cmd string, elevationPrefixes []string) Candidate {
	c := Candidate{Text: cmd}
	trimmed := strings.TrimSpace(cmd)
	lower := strings.ToLower(cmd)

	for _, dp := range dangerousPatterns {
		if strings.Contains(lower, strings.ToLower(dp.pattern)) {
			c.Destructive = true
			c.Warnings = append(c.Warnings, dp.warning)
		}
	}

	for _, prefix := range elevationPrefixes {
		if trimmed == prefix || strings.HasPrefix(trimmed, prefix+" ") {
			c.RequiresElevation = true
			c.Warnings = append(c.Warnings, "requires administrator privileges")
			break
		}
	}

	if strings.Contains(cmd, ">") && !strings.Contains(cmd, ">>") {
		c.Warnings = append(c.Warnings, "will overwrite existing file if it exists")
	}

	return c
}

// ClassifyAll extracts and classifies every candidate in a response.
func ClassifyAll(response string, elevationPrefixes []string) []Candidate {
	commands := Extract(response)
	candidates := make([]Candidate, 0, len(commands))
	for _, cmd := range commands {
		candidates = append(candidates, Classify(cmd, elevationPrefixes))
	}
	return candidates
}
