package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFamily(t *testing.T) {
	tests := []struct {
		model string
		want  Family
	}{
		{"llama3.1:8b", FamilyLlama},
		{"Llama-2-70B", FamilyLlama},
		{"codellama:13b", FamilyCodeLlama},
		{"starcoder2", FamilyCodeLlama},
		{"mistral:7b", FamilyMistral},
		{"deepseek-coder", FamilyCodeLlama}, // "code" wins before the deepseek check
		{"deepseek-r1", FamilyDeepSeek},
		{"gemma2", FamilyDefault},
		{"", FamilyDefault},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFamily(tt.model), "model %q", tt.model)
	}
}

func TestParsePlainTextIsSingleSegment(t *testing.T) {
	p := New("llama3")

	segments := p.Parse("  Just a plain answer.\n")

	require.Len(t, segments, 1)
	assert.Equal(t, Text, segments[0].Kind)
	assert.Equal(t, "Just a plain answer.", segments[0].Content)
}

func TestParseThoughtExtraction(t *testing.T) {
	p := New("llama3")

	segments := p.Parse("<thinking>plan the answer</thinking>\nHello there.")

	require.Len(t, segments, 2)
	assert.Equal(t, Thought, segments[0].Kind)
	assert.Equal(t, "plan the answer", segments[0].Content)
	assert.Equal(t, Text, segments[1].Kind)
	assert.Equal(t, "Hello there.", segments[1].Content)
}

func TestParseJoinsMultipleThoughts(t *testing.T) {
	p := New("llama3")

	segments := p.Parse("<thinking>one</thinking>mid<thinking>two</thinking>end")

	require.Len(t, segments, 2)
	assert.Equal(t, Thought, segments[0].Kind)
	assert.Equal(t, "one\ntwo", segments[0].Content)
	assert.Equal(t, "midend", segments[1].Content)
}

func TestParseKeepsTerminatorAfterProseThought(t *testing.T) {
	// The deepseek prose pattern has to consume its terminator keyword to
	// find its end; the terminator must survive in the remaining text.
	p := New("deepseek-r1")

	segments := p.Parse("Analysis: the disk is full\n\nSolution: clear the cache")

	require.Len(t, segments, 2)
	assert.Equal(t, Thought, segments[0].Kind)
	assert.Contains(t, segments[0].Content, "the disk is full")
	assert.Equal(t, Text, segments[1].Kind)
	assert.Contains(t, segments[1].Content, "Solution: clear the cache")
}

func TestParseProseThoughtNeedsBlankLineTerminator(t *testing.T) {
	p := New("llama3")

	// Terminated by a blank line: extracted as thought.
	segments := p.Parse("Let me think about it.\n\nThe answer is 4.")
	require.Len(t, segments, 2)
	assert.Equal(t, Thought, segments[0].Kind)
	assert.Contains(t, segments[0].Content, "Let me think about it.")
	assert.Equal(t, "The answer is 4.", segments[1].Content)

	// Trailing with no blank line: unterminated, stays in the text.
	segments = p.Parse("Answer is 4.\nLet me think about edge cases")
	require.Len(t, segments, 1)
	assert.Equal(t, Text, segments[0].Kind)
	assert.Contains(t, segments[0].Content, "Let me think about edge cases")
}

func TestParseCodeFences(t *testing.T) {
	p := New("gemma2")

	segments := p.Parse("Look:\n```go\nfmt.Println(1)\n```\nand\n```\nplain\n```\ndone")

	var code []Segment
	for _, s := range segments {
		if s.Kind == Code {
			code = append(code, s)
		}
	}
	require.Len(t, code, 2)
	assert.Equal(t, "fmt.Println(1)", code[0].Content)
	assert.Equal(t, "go", code[0].Metadata["language"])
	assert.Equal(t, "plain", code[1].Content)
	assert.Equal(t, "text", code[1].Metadata["language"])
}

func TestParseUnterminatedFenceStaysInText(t *testing.T) {
	p := New("gemma2")

	segments := p.Parse("```go\nfunc main() {")

	require.Len(t, segments, 1)
	assert.Equal(t, Text, segments[0].Kind)
	assert.Contains(t, segments[0].Content, "```go")
}

func TestParseCommandMarkerLines(t *testing.T) {
	p := New("llama3")

	segments := p.Parse("Run this:\nEXECUTE_COMMAND: df -h\nEXECUTE_COMMAND: df -h\nthen check.")

	var commands []string
	var text string
	for _, s := range segments {
		switch s.Kind {
		case Command:
			commands = append(commands, s.Content)
		case Text:
			text = s.Content
		}
	}

	// Order and duplicates are preserved; marker lines leave the text.
	assert.Equal(t, []string{"df -h", "df -h"}, commands)
	assert.NotContains(t, text, "EXECUTE_COMMAND")
	assert.Contains(t, text, "Run this:")
	assert.Contains(t, text, "then check.")
}

func TestParseShellLinesStayInText(t *testing.T) {
	p := New("llama3")

	segments := p.Parse("Try:\n$ ls -la\nand see.")

	var commands []string
	var text string
	for _, s := range segments {
		switch s.Kind {
		case Command:
			commands = append(commands, s.Content)
		case Text:
			text = s.Content
		}
	}

	// "$ cmd" lines are classified but remain part of the prose.
	assert.Equal(t, []string{"ls -la"}, commands)
	assert.Contains(t, text, "$ ls -la")
}

func TestParseEmptyResponse(t *testing.T) {
	p := New("llama3")
	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("   \n  "))
}

func TestParseMistralCommentsAreThoughts(t *testing.T) {
	p := New("mistral:7b")

	segments := p.Parse("<!-- weighing options -->The answer is 4.")

	require.Len(t, segments, 2)
	assert.Equal(t, Thought, segments[0].Kind)
	assert.Contains(t, segments[0].Content, "weighing options")
	assert.Equal(t, "The answer is 4.", segments[1].Content)
}
