// Package config loads the per-invocation configuration and resolves
// the scope a process operates in.
//
// Configuration is read once at process start and treated as immutable
// for the lifetime of the invocation. Precedence, lowest to highest:
// built-in defaults, user config file, system config file (only when the
// caller is privileged), then PREZ_PKGLOG_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// DefaultPackageExtensions is the downloads allow-list used when the
// config file does not set one.
var DefaultPackageExtensions = []string{".rpm", ".deb", ".pkg", ".exe", ".msi", ".dmg"}

// Config holds every tunable the process reads.
type Config struct {
	// Scope is the requested scope ("user" or "system"). A --scope flag
	// overrides it; system scope still requires privilege at resolve time.
	Scope string `yaml:"scope"`

	// DataDir overrides the scope-derived log directory when non-empty.
	DataDir string `yaml:"data_dir"`

	// DownloadsDir is the directory the downloads monitor watches.
	DownloadsDir string `yaml:"downloads_dir"`

	// EnableDownloadMonitor gates the downloads monitor entirely.
	EnableDownloadMonitor bool `yaml:"enable_download_monitoring"`

	// PackageExtensions is the extension allow-list for downloaded files.
	PackageExtensions []string `yaml:"package_extensions"`

	// LockTimeout bounds the wait for the store's cross-process lock.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Scope:                 string(pkglog.ScopeUser),
		DownloadsDir:          filepath.Join(home, "Downloads"),
		EnableDownloadMonitor: true,
		PackageExtensions:     append([]string(nil), DefaultPackageExtensions...),
		LockTimeout:           5 * time.Second,
	}
}

// Load builds the effective configuration for this invocation.
// Missing config files are not errors; a malformed file is.
func Load() (*Config, error) {
	cfg := Default()

	if err := mergeFile(cfg, UserConfigPath()); err != nil {
		return nil, err
	}
	if Euid() == 0 {
		if err := mergeFile(cfg, SystemConfigPath()); err != nil {
			return nil, err
		}
	}

	// A .env alongside the invocation may supply overrides; absence is fine.
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PREZ_PKGLOG_SCOPE"); v != "" {
		cfg.Scope = v
	}
	if v := os.Getenv("PREZ_PKGLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PREZ_PKGLOG_DOWNLOADS_DIR"); v != "" {
		cfg.DownloadsDir = v
	}
	if v := os.Getenv("PREZ_PKGLOG_LOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LockTimeout = d
		}
	}
	if v := os.Getenv("PREZ_PKGLOG_DOWNLOAD_MONITOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableDownloadMonitor = b
		}
	}
}

// Write persists cfg to path, creating parent directories. Used by the
// setup command; normal operation never writes configuration.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
