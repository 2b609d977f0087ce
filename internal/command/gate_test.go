package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records executed commands instead of spawning processes.
type fakeRunner struct {
	calls   []string
	results map[string]ExecResult
}

func (f *fakeRunner) Run(ctx context.Context, command string) ExecResult {
	f.calls = append(f.calls, command)
	return f.results[command]
}

// scriptedConfirmator answers the gate from pre-set choices and records the
// protocol as it unfolds.
type scriptedConfirmator struct {
	decision  Decision
	approvals []bool

	decideCalls int
	confirmed   []int
	executed    []string
	reported    []ExecResult
}

func (s *scriptedConfirmator) Decide(candidates []Candidate) Decision {
	s.decideCalls++
	return s.decision
}

func (s *scriptedConfirmator) Confirm(i int, c Candidate) bool {
	s.confirmed = append(s.confirmed, i)
	return s.approvals[i]
}

func (s *scriptedConfirmator) Executing(i int, c Candidate) {
	s.executed = append(s.executed, c.Text)
}

func (s *scriptedConfirmator) Report(i int, c Candidate, result ExecResult) {
	s.reported = append(s.reported, result)
}

func candidatesFor(commands ...string) []Candidate {
	out := make([]Candidate, len(commands))
	for i, c := range commands {
		out[i] = Candidate{Text: c}
	}
	return out
}

func TestGateEmptyBatchAsksNothing(t *testing.T) {
	runner := &fakeRunner{}
	confirmator := &scriptedConfirmator{decision: DecisionAll}
	NewGate(runner, confirmator).Run(context.Background(), nil)

	assert.Zero(t, confirmator.decideCalls)
	assert.Empty(t, runner.calls)
}

func TestGateSkipRunsNothing(t *testing.T) {
	runner := &fakeRunner{}
	confirmator := &scriptedConfirmator{decision: DecisionSkip}

	NewGate(runner, confirmator).Run(context.Background(), candidatesFor("ls", "df -h"))

	assert.Equal(t, 1, confirmator.decideCalls)
	assert.Empty(t, runner.calls)
	assert.Empty(t, confirmator.confirmed)
}

func TestGateAllRunsSequentially(t *testing.T) {
	runner := &fakeRunner{results: map[string]ExecResult{
		"ls":    {Stdout: "a\n"},
		"df -h": {ExitCode: 1},
	}}
	confirmator := &scriptedConfirmator{decision: DecisionAll}

	NewGate(runner, confirmator).Run(context.Background(), candidatesFor("ls", "df -h"))

	assert.Equal(t, []string{"ls", "df -h"}, runner.calls)
	assert.Equal(t, []string{"ls", "df -h"}, confirmator.executed)
	require.Len(t, confirmator.reported, 2)
	assert.True(t, confirmator.reported[0].Success())
	// A failed command is reported but does not stop the batch.
	assert.False(t, confirmator.reported[1].Success())
}

func TestGateSelectiveRunsApprovedOnly(t *testing.T) {
	runner := &fakeRunner{}
	confirmator := &scriptedConfirmator{
		decision:  DecisionSelective,
		approvals: []bool{false, true, false},
	}

	NewGate(runner, confirmator).Run(context.Background(), candidatesFor("a", "b", "c"))

	assert.Equal(t, []int{0, 1, 2}, confirmator.confirmed)
	assert.Equal(t, []string{"b"}, runner.calls)
}

func TestGateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	confirmator := &scriptedConfirmator{decision: DecisionAll}

	NewGate(runner, confirmator).Run(ctx, candidatesFor("ls"))

	assert.Empty(t, runner.calls)
}

func TestShellRunnerCapturesOutput(t *testing.T) {
	runner := ShellRunner{Timeout: 5 * time.Second}

	result := runner.Run(context.Background(), "echo out; echo err 1>&2")

	assert.True(t, result.Success())
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestShellRunnerExitCode(t *testing.T) {
	runner := ShellRunner{Timeout: 5 * time.Second}

	result := runner.Run(context.Background(), "exit 3")

	assert.False(t, result.Success())
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.TimedOut)
	assert.NoError(t, result.SpawnErr)
}

func TestShellRunnerTimeout(t *testing.T) {
	runner := ShellRunner{Timeout: 50 * time.Millisecond}

	result := runner.Run(context.Background(), "sleep 2")

	assert.False(t, result.Success())
	assert.True(t, result.TimedOut)
}
