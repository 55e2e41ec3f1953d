package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Recorder is the slice of the log store backends write through.
// Decoupling backends from the store package keeps translation code
// testable with an in-memory recorder.
type Recorder interface {
	Scope() pkglog.Scope
	Append(ctx context.Context, entry pkglog.Entry) error
	MarkRemoved(ctx context.Context, name, manager string) (pkglog.Entry, error)
}

// Backend is the capability set every package-manager integration
// implements.
type Backend interface {
	// Name identifies the backend ("dnf", "apt", "download", ...).
	Name() string

	// Available is a cheap, side-effect-free probe for whether the
	// underlying tool exists on this host.
	Available() bool

	// InstalledPackages enumerates what the manager currently has
	// installed, keyed by package name.
	InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error)

	// RegisterTransaction translates a manager-native transaction into
	// entries and hands each to rec. A single package's translation
	// failure is logged and skipped; it does not abort the rest.
	RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error
}

// UnavailableError reports a backend whose probe or tooling failed.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %q unavailable: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("backend %q unavailable", e.Backend)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err marks a backend as unavailable.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// TranslationError reports that every package in a transaction failed
// to translate. Partial failures are logged and skipped instead.
type TranslationError struct {
	Backend string
	Failed  int
	Total   int
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("backend %q: %d of %d packages failed to translate", e.Backend, e.Failed, e.Total)
}

// IsTranslationError reports whether err is a whole-transaction
// translation failure.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
