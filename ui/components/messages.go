package components

import (
	"fmt"
	"strings"

	"github.com/Jabril-Mahamud/kuzco/internal/models"
	"github.com/Jabril-Mahamud/kuzco/ui/styles"
)

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()
	thoughtStyle := styles.ThoughtStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Assistant: "+msg.Content) + "\n\n")
		case models.Thought:
			b.WriteString(thoughtStyle.Render(msg.Content) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		}
	}

	return b.String()
}

// RenderCommandPrompt draws the pending gate question: the numbered candidate
// list with warnings for the batch decision, or a single candidate for
// selective confirmation.
func RenderCommandPrompt(prompt *models.CommandPrompt, width int) string {
	frame := styles.CommandPromptStyle(width)
	warning := styles.WarningStyle()

	var b strings.Builder
	switch prompt.Kind {
	case models.PromptDecision:
		b.WriteString("The assistant suggests running:\n")
		for i, c := range prompt.Candidates {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, c.Text))
			for _, w := range c.Warnings {
				b.WriteString("     " + warning.Render("! "+w) + "\n")
			}
		}
		b.WriteString("Type 'yes' to run all, 'selective' to pick, anything else to skip.")
	case models.PromptConfirm:
		c := prompt.Candidates[0]
		b.WriteString(fmt.Sprintf("Run command %d: %s\n", prompt.Index+1, c.Text))
		for _, w := range c.Warnings {
			b.WriteString("  " + warning.Render("! "+w) + "\n")
		}
		b.WriteString("Type 'y' to run, anything else to skip.")
	}

	return frame.Render(b.String()) + "\n"
}
