package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/logging"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

const (
	jsonFileName = "packages.json"
	tomlFileName = "packages.toml"
	lockFileName = ".pkglog.lock"
)

// Store provides durable, concurrency-safe access to one scope's log
// file pair. A Store is cheap to construct; it holds no open handles
// between operations, so short-lived hook processes can build one,
// append, and exit.
type Store struct {
	scope pkglog.Scope
	dir   string

	jsonPath string
	tomlPath string
	lockPath string

	lockTimeout   time.Duration
	retryInterval time.Duration
	now           func() time.Time
	log           *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds the wait for the cross-process scope lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithClock overrides the time source used for removal records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for anomaly and self-heal reporting.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// Open binds a Store to the log directory for scope, creating the
// directory if needed. The log files themselves are created lazily on
// first append so an empty store reads as empty rather than erroring.
func Open(scope pkglog.Scope, dir string, opts ...Option) (*Store, error) {
	if !pkglog.ValidScope(scope) {
		return nil, &pkglog.ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", scope)}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}

	s := &Store{
		scope:         scope,
		dir:           dir,
		jsonPath:      filepath.Join(dir, jsonFileName),
		tomlPath:      filepath.Join(dir, tomlFileName),
		lockPath:      filepath.Join(dir, lockFileName),
		lockTimeout:   5 * time.Second,
		retryInterval: 25 * time.Millisecond,
		now:           time.Now,
		log:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scope returns the scope this store is bound to.
func (s *Store) Scope() pkglog.Scope {
	return s.scope
}

// Dir returns the directory holding the log file pair.
func (s *Store) Dir() string {
	return s.dir
}

// JSONPath returns the path of the structured-record file.
func (s *Store) JSONPath() string {
	return s.jsonPath
}

// TOMLPath returns the path of the table-form file.
func (s *Store) TOMLPath() string {
	return s.tomlPath
}
