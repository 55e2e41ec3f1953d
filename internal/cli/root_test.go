package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points every scope path at temp directories so commands
// never touch the real home directory.
func testEnv(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("PREZ_PKGLOG_DATA_DIR", dataDir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("PREZ_PKGLOG_DOWNLOADS_DIR", t.TempDir())
	return dataDir
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	expected := []string{"install", "remove", "query", "export", "status", "daemon", "setup", "backends"}
	var got []string
	for _, sub := range cmd.Commands() {
		got = append(got, sub.Name())
	}
	for _, name := range expected {
		assert.Contains(t, got, name)
	}
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "--format", "xml", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad flag", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
