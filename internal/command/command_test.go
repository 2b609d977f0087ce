package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrefixes = []string{"sudo", "su"}

func TestExtractPreservesOrderAndDuplicates(t *testing.T) {
	response := "First:\nEXECUTE_COMMAND: df -h\nthen\nEXECUTE_COMMAND: free -m\nEXECUTE_COMMAND: df -h\n"

	commands := Extract(response)

	assert.Equal(t, []string{"df -h", "free -m", "df -h"}, commands)
}

func TestExtractIgnoresProse(t *testing.T) {
	assert.Nil(t, Extract("You could run df -h to check usage."))
	assert.Nil(t, Extract("$ df -h"))
}

func TestExtractMarkerMidLineIsIgnored(t *testing.T) {
	// The marker only counts at the start of a line.
	commands := Extract("mentioning EXECUTE_COMMAND: here does nothing")
	assert.Nil(t, commands)
}

func TestClassifyDestructive(t *testing.T) {
	tests := []struct {
		cmd     string
		warning string
	}{
		{"rm -rf /tmp/cache", "recursive deletion"},
		{"dd if=/dev/zero of=/dev/sda", "raw disk operation"},
		{"mkfs.ext4 /dev/sdb1", "format operation"},
		{"echo x > /dev/sda", "device node"},
		{":(){ :|:& };:", "fork bomb"},
	}

	for _, tt := range tests {
		c := Classify(tt.cmd, testPrefixes)
		assert.True(t, c.Destructive, "cmd %q", tt.cmd)
		require.NotEmpty(t, c.Warnings, "cmd %q", tt.cmd)
		assert.Contains(t, c.Warnings[0], tt.warning)
	}
}

func TestClassifyCaseInsensitiveDangerCheck(t *testing.T) {
	c := Classify("RM -RF /", testPrefixes)
	assert.True(t, c.Destructive)
}

func TestClassifyElevation(t *testing.T) {
	c := Classify("sudo systemctl restart nginx", testPrefixes)
	assert.True(t, c.RequiresElevation)
	assert.Contains(t, c.Warnings, "requires administrator privileges")

	// Prefix match is word-bounded.
	c = Classify("sudoedit /etc/hosts", testPrefixes)
	assert.False(t, c.RequiresElevation)
}

func TestClassifyOverwriteWarning(t *testing.T) {
	c := Classify("echo hi > out.txt", testPrefixes)
	assert.Contains(t, c.Warnings, "will overwrite existing file if it exists")

	// Appending does not warn.
	c = Classify("echo hi >> out.txt", testPrefixes)
	assert.Empty(t, c.Warnings)
}

func TestClassifySafeCommand(t *testing.T) {
	c := Classify("ls -la", testPrefixes)
	assert.False(t, c.Destructive)
	assert.False(t, c.RequiresElevation)
	assert.Empty(t, c.Warnings)
}

func TestClassifyWarningOrder(t *testing.T) {
	// Destructive warnings come before the elevation warning.
	c := Classify("sudo rm -rf /var/log", testPrefixes)

	require.Len(t, c.Warnings, 2)
	assert.Contains(t, c.Warnings[0], "recursive deletion")
	assert.Equal(t, "requires administrator privileges", c.Warnings[1])
}

func TestClassifyAll(t *testing.T) {
	response := "EXECUTE_COMMAND: ls\nEXECUTE_COMMAND: sudo reboot\n"

	candidates := ClassifyAll(response, testPrefixes)

	require.Len(t, candidates, 2)
	assert.Equal(t, "ls", candidates[0].Text)
	assert.False(t, candidates[0].RequiresElevation)
	assert.Equal(t, "sudo reboot", candidates[1].Text)
	assert.True(t, candidates[1].RequiresElevation)
}

func TestParseDecision(t *testing.T) {
	assert.Equal(t, DecisionAll, ParseDecision("yes"))
	assert.Equal(t, DecisionAll, ParseDecision(" YES "))
	assert.Equal(t, DecisionSelective, ParseDecision("selective"))
	assert.Equal(t, DecisionSkip, ParseDecision("no"))
	assert.Equal(t, DecisionSkip, ParseDecision("y"))
	assert.Equal(t, DecisionSkip, ParseDecision(""))
}

func TestParseApproval(t *testing.T) {
	assert.True(t, ParseApproval("y"))
	assert.True(t, ParseApproval("Yes"))
	assert.False(t, ParseApproval("yeah"))
	assert.False(t, ParseApproval(""))
}
