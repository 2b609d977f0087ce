package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Decision is the user's answer to the batch prompt.
type Decision int

const (
	// DecisionSkip skips every candidate. Anything that is not one of the
	// affirmative keywords maps here.
	DecisionSkip Decision = iota
	// DecisionAll executes every candidate in order.
	DecisionAll
	// DecisionSelective asks per candidate.
	DecisionSelective
)

// ParseDecision maps the user's typed choice onto a Decision.
func ParseDecision(input string) Decision {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes":
		return DecisionAll
	case "selective":
		return DecisionSelective
	default:
		return DecisionSkip
	}
}

// ParseApproval interprets a per-candidate answer; only "y" and "yes"
// approve.
func ParseApproval(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ExecResult captures one subprocess run. Exactly one of the failure modes is
// reported: TimedOut, SpawnErr, or a non-zero ExitCode.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	SpawnErr error
}

// Success reports whether the command exited zero within its deadline.
func (r ExecResult) Success() bool {
	return !r.TimedOut && r.SpawnErr == nil && r.ExitCode == 0
}

// Runner executes a single shell command and reports the outcome. Abstracted
// so the gate's protocol is testable without spawning processes.
type Runner interface {
	Run(ctx context.Context, command string) ExecResult
}

// ShellRunner runs commands through "sh -c" with a wall-clock timeout.
type ShellRunner struct {
	Timeout time.Duration
}

// Run executes the command, capturing stdout and stderr separately. The
// subprocess is killed when the deadline passes.
func (s ShellRunner) Run(ctx context.Context, command string) ExecResult {
	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
	case err == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.SpawnErr = err
		}
	}

	return result
}

// Confirmator drives the interactive side of the gate: it shows the numbered
// candidate list and collects the batch decision, confirms individual
// candidates in selective mode, and observes each execution result. The chat
// UI and the plain terminal each provide one.
type Confirmator interface {
	// Decide presents the full candidate list and returns the batch choice.
	Decide(candidates []Candidate) Decision
	// Confirm asks whether candidate i should run. A false answer skips only
	// that candidate.
	Confirm(i int, c Candidate) bool
	// Executing is called immediately before candidate i is spawned.
	Executing(i int, c Candidate)
	// Report is called with the outcome of candidate i.
	Report(i int, c Candidate, result ExecResult)
}

// Gate is the only path from extracted candidates to a running subprocess.
// Commands run strictly one at a time, fully awaited, and every execution is
// preceded by the confirmation protocol.
type Gate struct {
	runner      Runner
	confirmator Confirmator
}

// NewGate wires a gate from a runner and a confirmator.
func NewGate(runner Runner, confirmator Confirmator) *Gate {
	return &Gate{runner: runner, confirmator: confirmator}
}

// Run applies the confirmation protocol to the candidates and executes the
// approved ones sequentially. Failures, timeouts, and spawn errors are
// reported and never abort the remaining candidates; only context
// cancellation stops the sequence early.
func (g *Gate) Run(ctx context.Context, candidates []Candidate) {
	if len(candidates) == 0 {
		return
	}

	decision := g.confirmator.Decide(candidates)

	switch decision {
	case DecisionAll:
		for i, c := range candidates {
			if ctx.Err() != nil {
				return
			}
			g.execute(ctx, i, c)
		}
	case DecisionSelective:
		for i, c := range candidates {
			if ctx.Err() != nil {
				return
			}
			if g.confirmator.Confirm(i, c) {
				g.execute(ctx, i, c)
			}
		}
	}
}

func (g *Gate) execute(ctx context.Context, i int, c Candidate) {
	g.confirmator.Executing(i, c)
	g.confirmator.Report(i, c, g.runner.Run(ctx, c.Text))
}
