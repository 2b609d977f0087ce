package core

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jabril-Mahamud/kuzco/internal/models"
)

func TestProcessingLifecycle(t *testing.T) {
	state := NewChatState()

	state.StartProcessingWithUserMessage("hello")
	assert.True(t, state.IsProcessing())

	state.FinishProcessingWithAssistantMessage("hi there")
	assert.False(t, state.IsProcessing())
	assert.NoError(t, state.GetLastError())

	history := state.GetChatHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestFinishWithError(t *testing.T) {
	state := NewChatState()
	state.StartProcessingWithUserMessage("hello")

	boom := errors.New("boom")
	state.FinishProcessingWithError(boom)

	assert.False(t, state.IsProcessing())
	assert.ErrorIs(t, state.GetLastError(), boom)
}

func TestGetMessagesCleansAssistantOnly(t *testing.T) {
	state := NewChatState()
	state.AddProgramMessage("welcome")
	state.StartProcessingWithUserMessage("raw user")
	state.FinishProcessingWithAssistantMessage("raw assistant")

	msgs := state.GetMessages(strings.ToUpper)

	require.Len(t, msgs, 3)
	assert.Equal(t, models.Program, msgs[0].Type)
	assert.Equal(t, "welcome", msgs[0].Content)
	assert.Equal(t, "raw user", msgs[1].Content)
	assert.Equal(t, "RAW ASSISTANT", msgs[2].Content)
}

func TestGetMessagesDropsEmptyCleanedAssistant(t *testing.T) {
	state := NewChatState()
	state.StartProcessingWithUserMessage("q")
	state.FinishProcessingWithAssistantMessage("only markers here")

	msgs := state.GetMessages(func(string) string { return "" })

	require.Len(t, msgs, 1)
	assert.Equal(t, models.User, msgs[0].Type)
}

func TestSaveAndLoadHistory(t *testing.T) {
	state := NewChatState()
	state.StartProcessingWithUserMessage("question")
	state.FinishProcessingWithAssistantMessage("<thinking>x</thinking>answer")

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, state.SaveHistory(path))

	restored := NewChatState()
	require.NoError(t, restored.LoadHistory(path))

	// Raw responses survive the round trip so the model keeps its context.
	history := restored.GetChatHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "<thinking>x</thinking>answer", history[1].Content)
}

func TestLoadHistoryMissingFile(t *testing.T) {
	state := NewChatState()
	err := state.LoadHistory(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
