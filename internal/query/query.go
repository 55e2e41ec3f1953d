// Package query filters a scope's history by simple field and date
// predicates. It never reorders or deduplicates: results come back in
// append order, exactly as stored.
package query

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Filter describes the predicates applied to the history. Zero-valued
// fields match everything.
type Filter struct {
	// Name matches as a case-insensitive substring of the entry name.
	Name string

	// Manager matches exactly.
	Manager string

	// Since keeps entries with timestamp >= now - Since.
	Since time.Duration

	// Now anchors the Since window; defaults to time.Now.
	Now func() time.Time
}

var fold = cases.Fold()

// Run applies the filter over entries, preserving append order.
func Run(entries []pkglog.Entry, f Filter) []pkglog.Entry {
	now := f.Now
	if now == nil {
		now = time.Now
	}

	var cutoff time.Time
	if f.Since > 0 {
		cutoff = now().Add(-f.Since)
	}
	needle := fold.String(f.Name)

	var out []pkglog.Entry
	for _, e := range entries {
		if f.Manager != "" && e.Manager != f.Manager {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(e.Name), needle) {
			continue
		}
		if !cutoff.IsZero() && e.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}
