package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallThenQuery(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, "install", "neovim", "dnf", "--version", "0.10.0", "--meta", "arch=x86_64")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged install of neovim via dnf (user scope)")

	out, err = runCLI(t, "query", "--manager", "dnf")
	require.NoError(t, err)
	assert.Contains(t, out, "neovim 0.10.0")
	assert.Contains(t, out, "installed")
	assert.Contains(t, out, "1 entries")
}

func TestRemoveAppendsHistory(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "install", "htop", "dnf")
	require.NoError(t, err)

	out, err := runCLI(t, "remove", "htop", "dnf")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged removal of htop via dnf (user scope)")

	out, err = runCLI(t, "query", "--name", "htop")
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "removed")
}

func TestQuery_JSONFormat(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "install", "ripgrep", "pacman")
	require.NoError(t, err)

	out, err := runCLI(t, "--format", "json", "query")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	entries, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	first := entries[0].(map[string]any)
	assert.Equal(t, "ripgrep", first["name"])
	assert.Equal(t, "pacman", first["manager"])
}

func TestQuery_EmptyHistory(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, "query")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found.")
}

func TestInstall_BadMetadataFlag(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "install", "x", "dnf", "--meta", "not-a-pair")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExport_JSONAndTOML(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "install", "fd", "dnf")
	require.NoError(t, err)

	out, err := runCLI(t, "export")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "fd", records[0]["name"])

	out, err = runCLI(t, "export", "--log-format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[[package]]")
	assert.Contains(t, out, "fd")
}

func TestExport_EmptyScope(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, "export")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExport_RejectsUnknownLogFormat(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "export", "--log-format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatus_CountsEntries(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "install", "neovim", "dnf")
	require.NoError(t, err)
	_, err = runCLI(t, "install", "app.rpm", "download")
	require.NoError(t, err)
	_, err = runCLI(t, "remove", "neovim", "dnf")
	require.NoError(t, err)

	out, err := runCLI(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Scope: user")
	assert.Contains(t, out, "Total packages logged: 3")
	assert.Contains(t, out, "Installed: 2")
	assert.Contains(t, out, "Removed: 1")
	assert.Contains(t, out, "Downloads: 1")
}

func TestSetup_WritesConfig(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Setup complete for user scope.")

	out, err = runCLI(t, "setup")
	require.NoError(t, err, "setup is idempotent")
	assert.Contains(t, out, "Setup complete")
}

func TestBackends_ListsDownloadBackend(t *testing.T) {
	testEnv(t)

	// The downloads dir exists, so the download backend is always
	// discoverable regardless of which managers the host has.
	out, err := runCLI(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, out, "download")
}

func TestScopeValidation(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, "--scope", "galaxy", "query")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, strings.Contains(err.Error(), "galaxy"))
}
