// Package assistant implements the one-shot operations behind the read, edit,
// and system commands: build the prompt, call the runtime, and turn the raw
// response into a rendered answer, a guarded file write, or gated commands.
package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Jabril-Mahamud/kuzco/internal/command"
	"github.com/Jabril-Mahamud/kuzco/internal/config"
	"github.com/Jabril-Mahamud/kuzco/internal/files"
	"github.com/Jabril-Mahamud/kuzco/internal/llm"
	"github.com/Jabril-Mahamud/kuzco/internal/parser"
	"github.com/Jabril-Mahamud/kuzco/internal/render"
	"github.com/Jabril-Mahamud/kuzco/internal/sanitize"
)

// Confirm asks a yes/no question on the terminal. Injected so the write and
// execution paths are testable without a TTY.
type Confirm func(label string) bool

// Assistant runs the non-chat operations against a configured model.
type Assistant struct {
	client  *llm.Client
	cfg     *config.Config
	out     io.Writer
	confirm Confirm
}

func New(client *llm.Client, cfg *config.Config, out io.Writer, confirm Confirm) *Assistant {
	return &Assistant{client: client, cfg: cfg, out: out, confirm: confirm}
}

func (a *Assistant) parser() *parser.Parser {
	return parser.New(a.cfg.GetModel())
}

// AnalyzeFile shows a preview of the file and then answers the question about
// its content. The model receives the full file even when the preview is
// truncated.
func (a *Assistant) AnalyzeFile(ctx context.Context, path, question string) error {
	resolved, err := files.Resolve(path)
	if err != nil {
		return err
	}
	content, err := files.ReadText(resolved)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, render.Panel(resolved, render.Preview(content, a.cfg.PreviewSizeThreshold)))
	fmt.Fprintln(a.out)

	if question == "" {
		question = "Summarize this file and point out anything notable."
	}

	messages := []llm.Message{
		{Role: "system", Content: "You are a code and text analysis assistant. Answer questions about the provided file precisely."},
		{Role: "user", Content: fmt.Sprintf("File: %s\n\n%s\n\nQuestion: %s", resolved, content, question)},
	}

	response, err := a.client.Complete(ctx, a.cfg.GetModel(), messages)
	if err != nil {
		return err
	}

	segments := a.parser().Parse(response)
	fmt.Fprint(a.out, render.Segments(segments, a.cfg.ShowThoughts))
	return nil
}

// EditFile asks the model for a full replacement of the file and writes it
// only when file-write cleaning validates the result and the user confirms.
// A rejected response is shown raw so nothing is silently lost.
func (a *Assistant) EditFile(ctx context.Context, path, instruction string) error {
	resolved, err := files.Resolve(path)
	if err != nil {
		return err
	}
	content, err := files.ReadText(resolved)
	if err != nil {
		return err
	}

	messages := []llm.Message{
		{Role: "system", Content: "You are a file editing assistant. Reply with the complete modified file content and nothing else: no explanations, no code fences, no commentary."},
		{Role: "user", Content: fmt.Sprintf("File: %s\n\nCurrent content:\n%s\n\nInstruction: %s", resolved, content, instruction)},
	}

	response, err := a.client.Complete(ctx, a.cfg.GetModel(), messages)
	if err != nil {
		return err
	}

	result := sanitize.CleanForFile(response, resolved)
	if !result.Valid {
		fmt.Fprintf(a.out, "Refusing to write %s: %s\n\n", resolved, result.Reason)
		fmt.Fprintln(a.out, render.Panel("raw response", response))
		return fmt.Errorf("edit rejected: %s", result.Reason)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(a.out, "Warning: %s\n", w)
	}
	fmt.Fprintln(a.out, render.Panel(resolved+" (proposed)", render.Preview(result.Content, a.cfg.PreviewSizeThreshold)))

	if !a.confirm(fmt.Sprintf("Apply changes to %s?", resolved)) {
		fmt.Fprintln(a.out, "Edit cancelled, file unchanged")
		return nil
	}

	backupPath, err := files.WriteWithBackup(resolved, result.Content, a.cfg.BackupsEnabled())
	if err != nil {
		return err
	}
	if backupPath != "" {
		fmt.Fprintf(a.out, "Previous content saved to %s\n", backupPath)
	}
	fmt.Fprintf(a.out, "Updated %s\n", resolved)
	return nil
}

// SystemAssist streams the answer to a sysadmin request, dimming reasoning as
// it arrives, then routes any suggested commands through the execution gate.
func (a *Assistant) SystemAssist(ctx context.Context, request string) error {
	messages := []llm.Message{
		{Role: "system", Content: "You are a system administration assistant. When a shell command would help, " +
			"put it on its own line prefixed with " + parser.CommandMarker + " so it can be offered for execution."},
		{Role: "user", Content: request},
	}

	stream := parser.NewStreamParser(a.cfg.GetModel())
	showThoughts := a.cfg.ShowThoughts

	full, err := a.client.CompleteStream(ctx, a.cfg.GetModel(), messages, func(token string) error {
		display, kind := stream.ProcessToken(token)
		if kind == parser.Thought {
			if showThoughts {
				fmt.Fprint(a.out, render.Thought(display))
			}
			return nil
		}
		fmt.Fprint(a.out, display)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out)

	candidates := command.ClassifyAll(full, a.cfg.ElevationPrefixes)
	if len(candidates) == 0 {
		return nil
	}

	gate := command.NewGate(
		command.ShellRunner{Timeout: a.cfg.CommandTimeout()},
		&terminalConfirmator{out: a.out, confirm: a.confirm, prompt: a.promptLine},
	)
	gate.Run(ctx, candidates)
	return nil
}

// promptLine reads one free-form answer; overridden in tests.
var stdinLine = func(label string) string {
	fmt.Print(label + " ")
	var line string
	fmt.Scanln(&line)
	return line
}

func (a *Assistant) promptLine(label string) string {
	return stdinLine(label)
}

// terminalConfirmator drives the gate protocol on a plain terminal.
type terminalConfirmator struct {
	out     io.Writer
	confirm Confirm
	prompt  func(label string) string
}

func (t *terminalConfirmator) Decide(candidates []command.Candidate) command.Decision {
	fmt.Fprintln(t.out, "\nSuggested commands:")
	for i, c := range candidates {
		fmt.Fprintf(t.out, "  %d. %s\n", i+1, c.Text)
		for _, w := range c.Warnings {
			fmt.Fprintf(t.out, "     ! %s\n", w)
		}
	}
	answer := t.prompt("Execute? [yes / selective / anything else skips]:")
	return command.ParseDecision(answer)
}

func (t *terminalConfirmator) Confirm(i int, c command.Candidate) bool {
	label := fmt.Sprintf("Run %d: %s", i+1, c.Text)
	if len(c.Warnings) > 0 {
		label += " (" + strings.Join(c.Warnings, "; ") + ")"
	}
	return t.confirm(label)
}

func (t *terminalConfirmator) Executing(i int, c command.Candidate) {
	if c.RequiresElevation {
		fmt.Fprintln(t.out, "Note: this command will request administrator privileges")
	}
	fmt.Fprintf(t.out, "$ %s\n", c.Text)
}

func (t *terminalConfirmator) Report(i int, c command.Candidate, result command.ExecResult) {
	switch {
	case result.TimedOut:
		fmt.Fprintln(t.out, "Command timed out")
	case result.SpawnErr != nil:
		fmt.Fprintf(t.out, "Failed to start: %v\n", result.SpawnErr)
	case result.ExitCode != 0:
		fmt.Fprintf(t.out, "Exited with status %d\n", result.ExitCode)
	}
	if result.Success() {
		if out := strings.TrimRight(result.Stdout, "\n"); out != "" {
			fmt.Fprintln(t.out, out)
		}
	} else if errOut := strings.TrimRight(result.Stderr, "\n"); errOut != "" {
		fmt.Fprintln(t.out, errOut)
	}
}
