package config

import (
	"fmt"
	"os"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Euid reports the effective user id. Overridable so tests can exercise
// the privileged path without running as root.
var Euid = os.Geteuid

// ScopeError reports a scope that cannot be used by this caller.
type ScopeError struct {
	Requested pkglog.Scope
	Reason    string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("scope %q: %s", e.Requested, e.Reason)
}

// ResolveScope decides which scope this invocation operates on.
// An explicit requested value (from a --scope flag) overrides the
// configured scope. System scope is only available to a privileged
// caller; an unprivileged request fails rather than silently
// downgrading to user scope.
func ResolveScope(requested string, cfg *Config) (pkglog.Scope, error) {
	raw := requested
	if raw == "" {
		raw = cfg.Scope
	}
	if raw == "" {
		raw = string(pkglog.ScopeUser)
	}

	scope := pkglog.Scope(raw)
	if !pkglog.ValidScope(scope) {
		return "", &ScopeError{Requested: scope, Reason: "must be user or system"}
	}
	if scope == pkglog.ScopeSystem && Euid() != 0 {
		return "", &ScopeError{Requested: scope, Reason: "requires administrative privileges"}
	}
	return scope, nil
}
