package models

import "github.com/Jabril-Mahamud/kuzco/internal/command"

// PromptKind distinguishes the two interactive steps of the command gate.
type PromptKind int

const (
	// PromptDecision asks for the batch choice over the whole candidate list.
	PromptDecision PromptKind = iota
	// PromptConfirm asks yes/no for a single candidate in selective mode.
	PromptConfirm
)

// CommandPrompt is a pending gate question routed into the input field. While
// one is set, typed input answers the prompt instead of becoming a chat
// message.
type CommandPrompt struct {
	ID         string
	Kind       PromptKind
	Candidates []command.Candidate
	Index      int // candidate being confirmed, PromptConfirm only
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages         []Message      // Current messages to display
	Input            string         // User input field
	Status           string         // Status bar text
	Loading          bool           // Loading state from core
	LoadingDots      int            // Animation counter for loading dots
	Width            int            // Terminal width
	Height           int            // Terminal height
	ChatServiceReady bool           // Whether chat service is available
	PendingPrompt    *CommandPrompt // Current command-gate question, if any
}
