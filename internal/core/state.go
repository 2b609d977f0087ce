package core

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Jabril-Mahamud/kuzco/internal/llm"
	"github.com/Jabril-Mahamud/kuzco/internal/models"
)

// ChatState manages the conversation state for event-driven architecture.
// The runtime-facing history is the single source of truth; it stores raw
// assistant responses so the full conversation context survives, and display
// cleaning happens on the way out.
type ChatState struct {
	mu              sync.RWMutex
	chatHistory     []llm.Message    // Single source of truth for conversation
	programMessages []models.Message // Program messages (welcome, status, etc.)
	isProcessing    bool
	lastError       error
}

func NewChatState() *ChatState {
	return &ChatState{
		chatHistory:     make([]llm.Message, 0),
		programMessages: make([]models.Message, 0),
	}
}

func (cs *ChatState) GetChatHistory() []llm.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]llm.Message, len(cs.chatHistory))
	copy(result, cs.chatHistory)
	return result
}

// GetMessages converts the history into display messages. Assistant entries
// pass through clean, which drops command markers and optionally thoughts;
// raw stored content is never shown directly.
func (cs *ChatState) GetMessages(clean func(string) string) []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	var result []models.Message

	// First add program messages
	result = append(result, cs.programMessages...)

	for _, msg := range cs.chatHistory {
		switch msg.Role {
		case "user":
			result = append(result, models.Message{
				Content: msg.Content,
				Type:    models.User,
			})
		case "assistant":
			content := msg.Content
			if clean != nil {
				content = clean(content)
			}
			if content != "" {
				result = append(result, models.Message{
					Content: content,
					Type:    models.Assistant,
				})
			}
		}
	}

	return result
}

func (cs *ChatState) SetProcessing(processing bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.isProcessing = processing
}

func (cs *ChatState) IsProcessing() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.isProcessing
}

func (cs *ChatState) GetLastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// AddProgramMessage adds a program message (system notifications)
func (cs *ChatState) AddProgramMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.programMessages = append(cs.programMessages, models.Message{
		Content: content,
		Type:    models.Program,
	})
}

// Atomic operations for event ordering
func (cs *ChatState) StartProcessingWithUserMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// Atomic: set processing and add user message
	cs.isProcessing = true
	cs.lastError = nil

	cs.chatHistory = append(cs.chatHistory, llm.Message{
		Role:    "user",
		Content: content,
	})
}

func (cs *ChatState) FinishProcessingWithAssistantMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// Atomic: stop processing and add assistant message
	cs.isProcessing = false
	cs.lastError = nil

	cs.chatHistory = append(cs.chatHistory, llm.Message{
		Role:    "assistant",
		Content: content,
	})
}

func (cs *ChatState) FinishProcessingWithError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// Atomic: stop processing with error
	cs.isProcessing = false
	cs.lastError = err
}

func (cs *ChatState) FinishProcessing() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.isProcessing = false
	cs.lastError = nil
}

// SaveHistory writes the conversation wholesale as JSON. Raw assistant
// responses are persisted, so a reloaded session has the same runtime context
// as the original.
func (cs *ChatState) SaveHistory(path string) error {
	history := cs.GetChatHistory()

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// LoadHistory replaces the conversation wholesale with the saved one.
func (cs *ChatState) LoadHistory(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	var history []llm.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("decoding history: %w", err)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.chatHistory = history
	return nil
}
