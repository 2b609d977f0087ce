package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/files"
	"github.com/Jabril-Mahamud/kuzco/internal/llm"
)

var readCmd = &cobra.Command{
	Use:   "read [file] [question...]",
	Short: "Analyze a file and answer questions about it",
	Long: `Read a text file, show a preview, and ask the model about its content.
Without a question the model summarizes the file.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		ensureModel(cfg)

		path := args[0]
		question := strings.Join(args[1:], " ")

		if err := newAssistant(cfg).AnalyzeFile(context.Background(), path, question); err != nil {
			fatalAssistantErr(err, cfg)
		}
	},
}

// fatalAssistantErr maps the known error kinds onto actionable messages.
func fatalAssistantErr(err error, cfg *config.Config) {
	switch {
	case errors.Is(err, files.ErrNotFound):
		log.Fatalf("%v", err)
	case errors.Is(err, files.ErrNotText):
		log.Fatalf("%v - only text files are supported", err)
	case errors.Is(err, llm.ErrModelNotFound):
		log.Fatalf("Model '%s' is not installed - run 'kuzco models' to pick one", cfg.GetModel())
	case errors.Is(err, llm.ErrUnavailable):
		log.Fatalf("Cannot reach the model runtime - is it running?")
	default:
		log.Fatalf("%v", err)
	}
}
