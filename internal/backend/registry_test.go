package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P-R-E-Z/prez-pkglog/internal/config"
	"github.com/P-R-E-Z/prez-pkglog/internal/logging"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

func stubPlatform(t *testing.T, platform string, executables ...string) {
	t.Helper()
	have := make(map[string]bool, len(executables))
	for _, e := range executables {
		have[e] = true
	}

	origGoos, origLook := goos, lookPath
	goos = func() string { return platform }
	lookPath = func(name string) (string, error) {
		if have[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { goos, lookPath = origGoos, origLook })
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DownloadsDir = t.TempDir()
	return cfg
}

func TestDiscover_LinuxFindsInstalledManagers(t *testing.T) {
	stubPlatform(t, "linux", "dnf", "rpm")

	r := Discover(testConfig(t), logging.Discard())

	// dnf probes true; apt and pacman probe false; download dir exists.
	assert.Equal(t, []string{"dnf", "download"}, r.Names())

	b, ok := r.Lookup("dnf")
	require.True(t, ok)
	assert.True(t, b.Available())

	_, ok = r.Lookup("apt")
	assert.False(t, ok)
}

func TestDiscover_DarwinAndWindows(t *testing.T) {
	stubPlatform(t, "darwin", "brew")
	r := Discover(testConfig(t), logging.Discard())
	assert.Equal(t, []string{"brew", "download"}, r.Names())

	stubPlatform(t, "windows", "choco")
	r = Discover(testConfig(t), logging.Discard())
	assert.Equal(t, []string{"chocolatey", "download"}, r.Names())
}

func TestDiscover_NoManagersStillHasDownload(t *testing.T) {
	stubPlatform(t, "linux")
	r := Discover(testConfig(t), logging.Discard())
	assert.Equal(t, []string{"download"}, r.Names())
}

func TestDiscover_MissingDownloadsDirSkipsDownload(t *testing.T) {
	stubPlatform(t, "linux")
	cfg := config.Default()
	cfg.DownloadsDir = filepath.Join(t.TempDir(), "does-not-exist")

	r := Discover(cfg, logging.Discard())
	assert.Empty(t, r.Names())
}

// panicBackend probes by panicking, standing in for an integration
// whose underlying library misbehaves.
type panicBackend struct{}

func (panicBackend) Name() string    { return "panicky" }
func (panicBackend) Available() bool { panic("probe exploded") }
func (panicBackend) InstalledPackages(context.Context) (map[string]pkglog.PackageInfo, error) {
	return nil, nil
}
func (panicBackend) RegisterTransaction(context.Context, pkglog.Transaction, Recorder) error {
	return nil
}

func TestSafeProbe_PanicIsUnavailable(t *testing.T) {
	assert.False(t, safeProbe(panicBackend{}, logging.Discard()))
}

func TestDownload_MatchesAndEnumerates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.rpm"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Setup.EXE"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.rpm"), 0o755))

	d := NewDownload(dir, config.DefaultPackageExtensions, logging.Discard())

	assert.True(t, d.Matches("/x/y/pkg.deb"))
	assert.True(t, d.Matches("UPPER.MSI"))
	assert.False(t, d.Matches("README.md"))

	packages, err := d.InstalledPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, packages, 2)
	assert.Contains(t, packages, "tool.rpm")
	assert.Contains(t, packages, "Setup.EXE")
}

func TestUnavailableError_Matching(t *testing.T) {
	err := error(&UnavailableError{Backend: "dnf", Err: errors.New("no rpm")})
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsUnavailable(errors.New("other")))
	assert.Contains(t, err.Error(), "dnf")
}
