package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system [request...]",
	Short: "Get sysadmin help with guarded command execution",
	Long: `Describe a system administration task. The answer streams live, and any
commands the model suggests are listed for explicit confirmation before
anything runs.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		ensureModel(cfg)

		request := strings.Join(args, " ")

		if err := newAssistant(cfg).SystemAssist(context.Background(), request); err != nil {
			fatalAssistantErr(err, cfg)
		}
	},
}
