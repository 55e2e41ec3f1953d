package config

import (
	"os"
	"path/filepath"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

const appDir = "prez-pkglog"

// systemDataDir is where the system-scope log pair lives.
const systemDataDir = "/var/log/prez-pkglog"

// UserConfigPath returns the per-user config file path, honoring
// XDG_CONFIG_HOME.
func UserConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir, "config.yaml")
}

// SystemConfigPath returns the system-wide config file path.
func SystemConfigPath() string {
	return filepath.Join("/etc", appDir, "config.yaml")
}

// LogDir maps a resolved scope to its log directory. An explicit
// data_dir in the config wins over the scope-derived default.
func (c *Config) LogDir(scope pkglog.Scope) string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if scope == pkglog.ScopeSystem {
		return systemDataDir
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, appDir)
}
