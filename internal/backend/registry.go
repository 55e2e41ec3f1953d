package backend

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/config"
)

// goos is indirected so discovery for other platforms is testable.
var goos = func() string { return runtime.GOOS }

// Registry holds the backends discovered for this process. Instances
// are process-local; nothing here is shared across processes.
type Registry struct {
	backends []Backend
	log      *logrus.Entry
}

// Discover enumerates the integrations compiled in for the host
// platform and probes each one. Backends that fail their probe are
// recorded as unavailable but stay listed, so callers can report why a
// manager is not being logged. The download backend is platform
// independent and always considered.
func Discover(cfg *config.Config, log *logrus.Entry) *Registry {
	var candidates []Backend
	switch goos() {
	case "linux":
		candidates = []Backend{NewDnf(log), NewApt(log), NewPacman(log)}
	case "darwin":
		candidates = []Backend{NewBrew(log)}
	case "windows":
		candidates = []Backend{NewWinget(log), NewChocolatey(log)}
	}
	candidates = append(candidates, NewDownload(cfg.DownloadsDir, cfg.PackageExtensions, log))

	r := &Registry{log: log}
	for _, b := range candidates {
		if safeProbe(b, log) {
			r.backends = append(r.backends, b)
			log.WithField("backend", b.Name()).Debug("backend available")
		} else {
			log.WithField("backend", b.Name()).Debug("backend unavailable, skipping")
		}
	}
	return r
}

// safeProbe runs a backend's availability probe, treating a panic as
// unavailable rather than fatal to discovery of the others.
func safeProbe(b Backend, log *logrus.Entry) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("backend", b.Name()).WithField("panic", r).
				Warn("backend probe panicked, treating as unavailable")
			ok = false
		}
	}()
	return b.Available()
}

// Backends returns the available backends in discovery order.
func (r *Registry) Backends() []Backend {
	return r.backends
}

// Lookup finds an available backend by name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	for _, b := range r.backends {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Names returns the available backend names in discovery order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.backends))
	for i, b := range r.backends {
		names[i] = b.Name()
	}
	return names
}
