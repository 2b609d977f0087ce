package cmd

import (
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Jabril-Mahamud/kuzco/internal/app"
	"github.com/Jabril-Mahamud/kuzco/internal/assistant"
	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/llm"
)

var modelFlag string

var rootCmd = &cobra.Command{
	Use:   "kuzco",
	Short: "Terminal assistant for local language models",
	Long: `Kuzco is a terminal front-end for a locally running model runtime:
chat with a model, analyze and edit files, and get sysadmin help with
guarded command execution.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		cfg := loadConfigOrDie()

		application, err := app.NewApplication(cfg)
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "",
		"model to use for this invocation (overrides the active profile)")

	// Add subcommands
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(useCmd)
}

// loadConfigOrDie loads the config and applies the --model override.
func loadConfigOrDie() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if modelFlag != "" {
		cfg.SetModelOverride(modelFlag)
	}
	return cfg
}

func newClient(cfg *config.Config) *llm.Client {
	return llm.New(cfg.GetBaseURL(), cfg.GetAPIKey())
}

func newAssistant(cfg *config.Config) *assistant.Assistant {
	return assistant.New(newClient(cfg), cfg, os.Stdout, confirmPrompt)
}

// confirmPrompt asks a yes/no question; only an explicit yes proceeds.
func confirmPrompt(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// ensureModel guarantees a model is selected before talking to the runtime,
// falling back to interactive selection from the installed models.
func ensureModel(cfg *config.Config) {
	if cfg.GetModel() != "" {
		return
	}
	if err := selectModelInteractive(cfg); err != nil {
		log.Fatalf("No model selected: %v", err)
	}
}
