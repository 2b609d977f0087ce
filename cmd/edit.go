package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [file] [instruction...]",
	Short: "Edit a file with the model's help",
	Long: `Ask the model to rewrite a file per the instruction. The cleaned result
is previewed and written only after confirmation, with the previous content
saved to a .backup sibling.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		ensureModel(cfg)

		path := args[0]
		instruction := strings.Join(args[1:], " ")

		if err := newAssistant(cfg).EditFile(context.Background(), path, instruction); err != nil {
			fatalAssistantErr(err, cfg)
		}
	},
}
