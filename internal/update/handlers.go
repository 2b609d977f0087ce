package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jabril-Mahamud/kuzco/internal/command"
	"github.com/Jabril-Mahamud/kuzco/internal/eventbus"
	"github.com/Jabril-Mahamud/kuzco/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "enter":
		input := strings.TrimSpace(appModel.Input)

		// A pending gate prompt captures the input line entirely; the answer
		// goes back to core and never becomes a chat message.
		if appModel.PendingPrompt != nil {
			answerPrompt(appModel, input, eb)
			appModel.Input = ""
			return nil
		}

		if input != "" && chatReady {
			if err := eb.SendToCore(eventbus.SendMessageEvent{Message: appModel.Input}); err != nil {
				appModel.Status = "Error sending message: " + err.Error()
				return nil
			}

			// Only manage local UI state - clear input
			appModel.Input = ""
			return nil
		} else if input != "" {
			// Fallback when chat service is not ready
			appModel.Input = ""
			appModel.Status = "Chat service not available"
		}
	case "backspace":
		if len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	default:
		if len(keyMsg.String()) == 1 {
			appModel.Input += keyMsg.String()
		}
	}
	return nil
}

// answerPrompt routes a typed answer to the command gate waiting in core.
func answerPrompt(appModel *models.AppModel, input string, eb *eventbus.EventBus) {
	prompt := appModel.PendingPrompt
	appModel.PendingPrompt = nil

	switch prompt.Kind {
	case models.PromptDecision:
		if err := eb.SendToCore(eventbus.CommandDecisionResponseEvent{
			ID:     prompt.ID,
			Choice: input,
		}); err != nil {
			appModel.Status = "Error sending decision: " + err.Error()
			return
		}
	case models.PromptConfirm:
		if err := eb.SendToCore(eventbus.ConfirmationResponseEvent{
			ID:       prompt.ID,
			Approved: command.ParseApproval(input),
		}); err != nil {
			appModel.Status = "Error sending confirmation: " + err.Error()
			return
		}
	}
	appModel.Status = "Processing"
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		// Core sends only messages the UI has not seen yet
		appModel.Messages = append(appModel.Messages, event.Messages...)
		appModel.Loading = event.IsProcessing

		// Update status based on core state
		if event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.IsProcessing {
			appModel.Status = "Processing"
		} else if appModel.PendingPrompt == nil {
			appModel.Status = "Ready"
		}

	case eventbus.CommandDecisionRequestEvent:
		appModel.PendingPrompt = &models.CommandPrompt{
			ID:         event.ID,
			Kind:       models.PromptDecision,
			Candidates: event.Candidates,
		}
		appModel.Status = "Execute commands? [yes / selective / anything else skips]"

	case eventbus.ConfirmationRequestEvent:
		appModel.PendingPrompt = &models.CommandPrompt{
			ID:         event.ID,
			Kind:       models.PromptConfirm,
			Candidates: []command.Candidate{event.Candidate},
			Index:      event.Index,
		}
		appModel.Status = "Run this command? [y/N]"

	case eventbus.QuitEvent:
		return tea.Quit
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
