package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Jabril-Mahamud/kuzco/internal/llm"
)

var useCmd = &cobra.Command{
	Use:   "use [model]",
	Short: "Set the model for the active profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		model := args[0]

		// Verify against the runtime when it is reachable; an offline runtime
		// should not block picking a model.
		client := newClient(cfg)
		installed, err := client.HasModel(context.Background(), model)
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			fmt.Println("Runtime not reachable, saving model without verification")
		case err != nil:
			log.Fatalf("Failed to verify model: %v", err)
		case !installed:
			log.Fatalf("Model '%s' is not installed - run 'kuzco models' to see what is", model)
		}

		cfg.SetModel(model)
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Using model '%s'\n", model)
	},
}
