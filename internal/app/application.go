package app

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/core"
	"github.com/Jabril-Mahamud/kuzco/internal/dispatcher"
	"github.com/Jabril-Mahamud/kuzco/internal/eventbus"
	"github.com/Jabril-Mahamud/kuzco/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

// NewApplication wires the chat session around an already loaded config, so
// command-line overrides applied by the caller are in effect.
func NewApplication(cfg *config.Config) (*Application, error) {
	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// Initialize chat service (always create, handles missing model internally)
	chatService, err := core.NewChatService(cfg, eb)
	if err != nil {
		log.Printf("Failed to initialize chat service: %v", err)
		return nil, err
	}

	// Create app model
	model := &AppModel{
		appModel:   createInitialAppModel(cfg),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(cfg *config.Config) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:         make([]models.Message, 0), // Start empty, core will send messages
		Status:           "Ready",
		Loading:          false,
		ChatServiceReady: true,
	}
}
