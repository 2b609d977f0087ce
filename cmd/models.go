package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List installed models and pick one",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()

		if err := selectModelInteractive(cfg); err != nil {
			if errors.Is(err, llm.ErrUnavailable) {
				log.Fatalf("Cannot reach the model runtime - is it running at %s?",
					baseURLOrDefault(cfg))
			}
			log.Fatalf("Model selection failed: %v", err)
		}
	},
}

func baseURLOrDefault(cfg *config.Config) string {
	if cfg.GetBaseURL() != "" {
		return cfg.GetBaseURL()
	}
	return llm.DefaultBaseURL
}

// selectModelInteractive lists the installed models and saves the chosen one
// on the active profile.
func selectModelInteractive(cfg *config.Config) error {
	client := newClient(cfg)

	names, err := client.ListModels(context.Background())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no models installed on the runtime")
	}

	current := cfg.GetModel()
	fmt.Println("Installed models:")
	for _, name := range names {
		marker := ""
		if name == current {
			marker = " (current)"
		}
		fmt.Printf("  %s%s\n", name, marker)
	}

	prompt := promptui.Select{
		Label: "Select model",
		Items: names,
	}
	_, chosen, err := prompt.Run()
	if err != nil {
		return err
	}

	cfg.SetModel(chosen)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Using model '%s'\n", chosen)
	return nil
}
