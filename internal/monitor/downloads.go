// Package monitor watches the downloads directory and turns file
// creations into install records.
//
// The monitor is a single cooperative event loop: it blocks on the next
// filesystem event, translates it, appends through the same store
// locking path every other writer uses, and loops. Cancellation is
// observed between events; an in-flight translation always finishes
// before the loop exits, so no event is half-recorded.
package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/backend"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// State reports where the monitor's lifecycle stands.
type State string

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = "idle"

	// StateWatching means the event loop is live.
	StateWatching State = "watching"

	// StateStopped means the loop exited, cleanly or not. A stopped
	// monitor does not restart itself; the supervisor decides.
	StateStopped State = "stopped"
)

// Monitor owns one watch on the downloads directory.
type Monitor struct {
	download *backend.Download
	rec      backend.Recorder
	log      *logrus.Entry

	settle      time.Duration
	dedupWindow time.Duration
	now         func() time.Time

	mu     sync.Mutex
	state  State
	recent map[string]recentLog
}

// recentLog remembers a (path, size) pair already logged, to absorb
// duplicate create notifications.
type recentLog struct {
	size int64
	at   time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithSettle sets how long a file's size must hold steady before it is
// considered fully written.
func WithSettle(d time.Duration) Option {
	return func(m *Monitor) { m.settle = d }
}

// WithDedupWindow sets how long a logged (path, size) pair suppresses
// duplicate create events.
func WithDedupWindow(d time.Duration) Option {
	return func(m *Monitor) { m.dedupWindow = d }
}

// WithClock overrides the monitor's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a monitor that appends through rec whatever the download
// backend's allow-list admits.
func New(download *backend.Download, rec backend.Recorder, log *logrus.Entry, opts ...Option) *Monitor {
	m := &Monitor{
		download:    download,
		rec:         rec,
		log:         log.WithField("component", "downloads-monitor"),
		settle:      500 * time.Millisecond,
		dedupWindow: 10 * time.Second,
		now:         time.Now,
		state:       StateIdle,
		recent:      make(map[string]recentLog),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Run watches until ctx is cancelled or the watch target is lost.
// Cancellation returns nil; losing the directory returns an error. In
// both cases the monitor lands in StateStopped and stays there.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.setState(StateStopped)

	dir := m.download.Dir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("downloads directory %s not watchable: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	m.setState(StateWatching)
	m.log.WithField("dir", dir).Info("watching downloads directory")

	for {
		select {
		case <-ctx.Done():
			m.log.Info("stop requested")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch on %s lost", dir)
			}
			if event.Name == dir && event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return fmt.Errorf("downloads directory %s removed", dir)
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			m.handleCreate(ctx, event.Name)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch on %s lost", dir)
			}
			m.log.WithError(werr).Warn("watcher error")
		}
	}
}

// handleCreate translates one create event into at most one entry.
func (m *Monitor) handleCreate(ctx context.Context, path string) {
	if !m.download.Matches(path) {
		return
	}

	size, ok := m.waitStable(ctx, path)
	if !ok {
		return
	}
	if m.isDuplicate(path, size) {
		m.log.WithField("path", path).Debug("duplicate create event, already logged")
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	entry := pkglog.Entry{
		Name:      name,
		Manager:   "download",
		Action:    pkglog.ActionInstall,
		Timestamp: m.now(),
		Scope:     m.rec.Scope(),
		Metadata: pkglog.Metadata{
			"path":      path,
			"size":      size,
			"file_type": strings.ToLower(filepath.Ext(path)),
		},
	}
	if err := m.rec.Append(ctx, entry); err != nil {
		m.log.WithError(err).WithField("path", path).Error("failed to log download")
		return
	}
	m.remember(path, size)
	m.log.WithField("path", path).WithField("size", size).Info("logged download")
}

// waitStable polls until the file's size holds across one settle
// interval, meaning the download finished. A file that disappears
// mid-wait (browser temp files, cancelled downloads) is skipped.
func (m *Monitor) waitStable(ctx context.Context, path string) (int64, bool) {
	var last int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return 0, false
		}
		if info.Size() == last {
			return last, true
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			// Finish the in-flight decision with what we have rather
			// than abandoning a half-observed file.
			return last, true
		case <-time.After(m.settle):
		}
	}
}

func (m *Monitor) isDuplicate(path string, size int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recent[path]
	return ok && r.size == size && m.now().Sub(r.at) < m.dedupWindow
}

func (m *Monitor) remember(path string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Expire stale suppressions while we are here; the map stays tiny.
	cutoff := m.now().Add(-m.dedupWindow)
	for p, r := range m.recent {
		if r.at.Before(cutoff) {
			delete(m.recent, p)
		}
	}
	m.recent[path] = recentLog{size: size, at: m.now()}
}
