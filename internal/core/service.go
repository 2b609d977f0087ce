package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Jabril-Mahamud/kuzco/internal/command"
	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/eventbus"
	"github.com/Jabril-Mahamud/kuzco/internal/llm"
	"github.com/Jabril-Mahamud/kuzco/internal/models"
	"github.com/Jabril-Mahamud/kuzco/internal/parser"
	"github.com/Jabril-Mahamud/kuzco/internal/sanitize"
)

// ChatService owns the conversation loop: it receives UI events, talks to the
// model runtime, and drives the command gate. It also implements
// command.Confirmator by bridging the gate's blocking questions over the event
// bus to the UI.
type ChatService struct {
	client        *llm.Client
	config        *config.Config
	state         *ChatState
	eventBus      *eventbus.EventBus
	parser        *parser.Parser
	gate          *command.Gate
	ctx           context.Context
	cancel        context.CancelFunc
	lastSentCount int // Track how many messages we've sent to UI

	promptMutex      sync.RWMutex           // Protects both pending maps
	pendingDecisions map[string]chan string // Batch-decision answers by request ID
	pendingConfirms  map[string]chan bool   // Per-candidate answers by request ID
}

// NewChatService creates a ChatService regardless of config validity
// This ensures we always have a service to manage state
func NewChatService(cfg *config.Config, eb *eventbus.EventBus) (*ChatService, error) {
	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		client:           llm.New(cfg.GetBaseURL(), cfg.GetAPIKey()),
		config:           cfg,
		state:            NewChatState(),
		eventBus:         eb,
		parser:           parser.New(cfg.GetModel()),
		ctx:              ctx,
		cancel:           cancel,
		pendingDecisions: make(map[string]chan string),
		pendingConfirms:  make(map[string]chan bool),
	}
	service.gate = command.NewGate(command.ShellRunner{Timeout: cfg.CommandTimeout()}, service)

	service.addWelcomeMessages(cfg)

	return service, nil
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI()
	go cs.eventLoop()
}

func (cs *ChatService) Stop() {
	cs.cancel()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		cs.processMessage(e.Message)
	case eventbus.CommandDecisionResponseEvent:
		cs.handleDecisionResponse(e)
	case eventbus.ConfirmationResponseEvent:
		cs.handleConfirmationResponse(e)
	}
}

func (cs *ChatService) processMessage(userMessage string) {
	trimmed := strings.TrimSpace(userMessage)

	if cs.config.IsExitKeyword(strings.ToLower(trimmed)) {
		cs.eventBus.SendToUI(eventbus.QuitEvent{})
		return
	}

	if handled := cs.handleChatCommand(trimmed); handled {
		return
	}

	// Atomic update: Set processing and add user message
	cs.state.StartProcessingWithUserMessage(userMessage)
	cs.pushStateToUI()

	// The gate blocks on UI answers routed through this event loop, so the
	// response cycle runs in its own goroutine.
	go cs.respond()
}

// handleChatCommand intercepts session commands that never reach the model.
func (cs *ChatService) handleChatCommand(input string) bool {
	switch {
	case input == "/save" || strings.HasPrefix(input, "/save "):
		path := strings.TrimSpace(strings.TrimPrefix(input, "/save"))
		if path == "" {
			path = defaultHistoryPath(time.Now())
		}
		if err := cs.state.SaveHistory(path); err != nil {
			cs.state.AddProgramMessage(fmt.Sprintf("Error: %v", err))
		} else {
			cs.state.AddProgramMessage(fmt.Sprintf("Conversation saved to %s", path))
		}
	case strings.HasPrefix(input, "/load "):
		path := strings.TrimSpace(strings.TrimPrefix(input, "/load "))
		if err := cs.state.LoadHistory(path); err != nil {
			cs.state.AddProgramMessage(fmt.Sprintf("Error: %v", err))
		} else {
			cs.state.AddProgramMessage(fmt.Sprintf("Conversation loaded from %s", path))
			// History replaced wholesale; resend everything.
			cs.lastSentCount = 0
		}
	default:
		return false
	}
	cs.pushStateToUI()
	return true
}

// defaultHistoryPath names a save file when the user gives no path.
func defaultHistoryPath(now time.Time) string {
	return fmt.Sprintf("chat_%s.json", now.Format("20060102_150405"))
}

func (cs *ChatService) respond() {
	model := cs.config.GetModel()
	if model == "" {
		cs.state.FinishProcessingWithError(fmt.Errorf("no model configured - run 'kuzco models' to pick one"))
		cs.pushStateToUI()
		return
	}

	response, err := cs.client.Complete(cs.ctx, model, cs.state.GetChatHistory())
	if err != nil {
		cs.state.FinishProcessingWithError(err)
		cs.pushStateToUI()
		return
	}

	// The raw response goes into history so the model keeps its own markers
	// as context; display cleaning happens on the way to the UI.
	cs.state.FinishProcessingWithAssistantMessage(response)
	cs.pushStateToUI()

	candidates := command.ClassifyAll(response, cs.config.ElevationPrefixes)
	cs.gate.Run(cs.ctx, candidates)
}

func (cs *ChatService) cleanForDisplay(raw string) string {
	return sanitize.Display(cs.parser, raw, cs.config.ShowThoughts)
}

func (cs *ChatService) pushStateToUI() {
	allMessages := cs.state.GetMessages(cs.cleanForDisplay)
	isProcessing := cs.state.IsProcessing()
	lastError := cs.state.GetLastError()

	// Only send new messages to reduce resource usage
	if cs.lastSentCount > len(allMessages) {
		cs.lastSentCount = 0
	}
	newMessages := allMessages[cs.lastSentCount:]
	cs.lastSentCount = len(allMessages)

	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:     newMessages, // Only new messages
		IsProcessing: isProcessing,
		Error:        lastError,
	}); err != nil {
		fmt.Printf("Error sending state to UI: %v\n", err)
	}
}

// GetInitialMessages returns the initial messages for printing to terminal
func (cs *ChatService) GetInitialMessages() []models.Message {
	return cs.state.GetMessages(cs.cleanForDisplay)
}

func (cs *ChatService) addWelcomeMessages(cfg *config.Config) {
	cs.state.AddProgramMessage("-- KUZCO --")

	if cfg.GetModel() != "" {
		cs.state.AddProgramMessage(fmt.Sprintf("Profile: %s | Model: %s", cfg.ActiveProfile, cfg.GetModel()))
		cs.state.AddProgramMessage("Ready to chat! Type your message and press Enter")
	} else {
		cs.state.AddProgramMessage(fmt.Sprintf("Profile: %s [NO MODEL]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Pick a model first:")
		cs.state.AddProgramMessage("• Run: kuzco models")
		cs.state.AddProgramMessage("• Or edit: ~/.kuzco/config.json")
	}

	cs.state.AddProgramMessage("Controls: Ctrl+C to exit, /save [path] and /load <path> for history")
	cs.state.AddProgramMessage("")
}

// generatePromptID generates a unique ID for gate prompts
func (cs *ChatService) generatePromptID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Decide implements command.Confirmator: it sends the candidate list to the
// UI and blocks until the user's batch choice comes back over the bus.
func (cs *ChatService) Decide(candidates []command.Candidate) command.Decision {
	id := cs.generatePromptID()
	responseChan := make(chan string, 1)

	cs.promptMutex.Lock()
	cs.pendingDecisions[id] = responseChan
	cs.promptMutex.Unlock()

	defer func() {
		cs.promptMutex.Lock()
		delete(cs.pendingDecisions, id)
		cs.promptMutex.Unlock()
	}()

	if err := cs.eventBus.SendToUI(eventbus.CommandDecisionRequestEvent{
		ID:         id,
		Candidates: candidates,
	}); err != nil {
		return command.DecisionSkip
	}

	select {
	case choice := <-responseChan:
		return command.ParseDecision(choice)
	case <-cs.ctx.Done():
		return command.DecisionSkip
	}
}

// Confirm implements command.Confirmator for selective mode.
func (cs *ChatService) Confirm(i int, c command.Candidate) bool {
	id := cs.generatePromptID()
	responseChan := make(chan bool, 1)

	cs.promptMutex.Lock()
	cs.pendingConfirms[id] = responseChan
	cs.promptMutex.Unlock()

	defer func() {
		cs.promptMutex.Lock()
		delete(cs.pendingConfirms, id)
		cs.promptMutex.Unlock()
	}()

	if err := cs.eventBus.SendToUI(eventbus.ConfirmationRequestEvent{
		ID:        id,
		Index:     i,
		Candidate: c,
	}); err != nil {
		return false
	}

	select {
	case approved := <-responseChan:
		return approved
	case <-cs.ctx.Done():
		return false
	}
}

// Executing implements command.Confirmator.
func (cs *ChatService) Executing(i int, c command.Candidate) {
	if c.RequiresElevation {
		cs.state.AddProgramMessage("Note: this command will request administrator privileges")
	}
	cs.state.AddProgramMessage(fmt.Sprintf("$ %s", c.Text))
	cs.pushStateToUI()
}

// Report implements command.Confirmator.
func (cs *ChatService) Report(i int, c command.Candidate, result command.ExecResult) {
	var lines []string
	switch {
	case result.TimedOut:
		lines = append(lines, "Command timed out")
	case result.SpawnErr != nil:
		lines = append(lines, fmt.Sprintf("Failed to start: %v", result.SpawnErr))
	case result.ExitCode != 0:
		lines = append(lines, fmt.Sprintf("Exited with status %d", result.ExitCode))
	}

	if result.Success() {
		if out := strings.TrimRight(result.Stdout, "\n"); out != "" {
			lines = append(lines, out)
		}
	} else if errOut := strings.TrimRight(result.Stderr, "\n"); errOut != "" {
		lines = append(lines, errOut)
	}
	if len(lines) == 0 {
		lines = append(lines, "(no output)")
	}

	cs.state.AddProgramMessage(strings.Join(lines, "\n"))
	cs.pushStateToUI()
}

func (cs *ChatService) handleDecisionResponse(response eventbus.CommandDecisionResponseEvent) {
	cs.promptMutex.RLock()
	responseChan, exists := cs.pendingDecisions[response.ID]
	cs.promptMutex.RUnlock()

	if exists {
		select {
		case responseChan <- response.Choice:
		default:
		}
	}
}

func (cs *ChatService) handleConfirmationResponse(response eventbus.ConfirmationResponseEvent) {
	cs.promptMutex.RLock()
	responseChan, exists := cs.pendingConfirms[response.ID]
	cs.promptMutex.RUnlock()

	if exists {
		select {
		case responseChan <- response.Approved:
		default:
		}
	}
}
