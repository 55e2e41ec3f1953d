package pkglog

import "time"

// Action identifies what happened to a package.
type Action string

const (
	// ActionInstall records a package or file arriving on the system.
	ActionInstall Action = "install"

	// ActionRemove records a package leaving the system.
	ActionRemove Action = "remove"
)

// ValidAction reports whether a is a known action.
func ValidAction(a Action) bool {
	return a == ActionInstall || a == ActionRemove
}

// Scope partitions storage. A user-scope store and a system-scope store
// share no records and no file paths.
type Scope string

const (
	// ScopeUser logs under the invoking user's data directory.
	ScopeUser Scope = "user"

	// ScopeSystem logs under the system log directory. Selecting it
	// requires a privileged caller.
	ScopeSystem Scope = "system"
)

// ValidScope reports whether s is a known scope.
func ValidScope(s Scope) bool {
	return s == ScopeUser || s == ScopeSystem
}

// Metadata carries backend-defined key/value context for an entry.
// Values are scalars (string, bool, int64, float64); unknown keys
// round-trip through both storage formats losslessly.
type Metadata map[string]any

// Entry is one record of a package or file install/remove event.
//
// Entries are immutable once appended except for the Removed flag,
// which transitions false->true exactly once via a later record and
// never reverts. Timestamp is set at creation and never modified.
type Entry struct {
	Name      string    `json:"name"`
	Manager   string    `json:"manager"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"date"`
	Removed   bool      `json:"removed"`
	Scope     Scope     `json:"scope"`
	Version   string    `json:"version,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

// Equal reports whether two entries carry the same logical content.
// Timestamps compare by instant, not by location, so an entry decoded
// from disk equals the entry that was encoded.
func (e Entry) Equal(other Entry) bool {
	if e.Name != other.Name ||
		e.Manager != other.Manager ||
		e.Action != other.Action ||
		e.Removed != other.Removed ||
		e.Scope != other.Scope ||
		e.Version != other.Version {
		return false
	}
	if !e.Timestamp.Equal(other.Timestamp) {
		return false
	}
	if len(e.Metadata) != len(other.Metadata) {
		return false
	}
	for k, v := range e.Metadata {
		if ov, ok := other.Metadata[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// PackageInfo describes an installed package as reported by a backend.
// Only Name is guaranteed present.
type PackageInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Repository   string `json:"repository,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Transaction is a batch of package operations reported by a package
// manager in one unit of work: the set installed and the set removed.
type Transaction struct {
	InstallSet []PackageInfo
	RemoveSet  []PackageInfo
}
