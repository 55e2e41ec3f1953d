package store

import (
	"context"
	"os"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// ReadAll returns the full ordered record sequence for the scope, in
// append order. The structured-record file is the preferred source; if
// it is unreadable or corrupted the table file serves instead. Only
// when both formats fail does ReadAll return a codec error.
func (s *Store) ReadAll(ctx context.Context) ([]pkglog.Entry, error) {
	release, err := s.acquireShared(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	entries, _, err := s.loadPreferred()
	return entries, err
}

// loadPreferred reads without taking the lock; callers hold it.
// The second return reports whether the formats disagreed (or one was
// corrupt), meaning the next write should rewrite both from the merged
// truth.
func (s *Store) loadPreferred() ([]pkglog.Entry, bool, error) {
	jsonEntries, jsonErr := s.loadFormat(s.jsonPath, decodeJSON)
	tomlEntries, tomlErr := s.loadFormat(s.tomlPath, decodeTOML)

	switch {
	case jsonErr == nil && tomlErr == nil:
		// Both parse. They should agree; if one is shorter it is stale
		// (e.g. restored from backup, interrupted writer generation) and
		// the longer sequence is the truth.
		if len(jsonEntries) >= len(tomlEntries) {
			return jsonEntries, len(jsonEntries) != len(tomlEntries), nil
		}
		s.log.WithField("json", len(jsonEntries)).WithField("toml", len(tomlEntries)).
			Warn("structured file behind table file, using table file")
		return tomlEntries, true, nil

	case jsonErr == nil:
		s.log.WithError(tomlErr).Warn("table file unreadable, using structured file")
		return jsonEntries, true, nil

	case tomlErr == nil:
		s.log.WithError(jsonErr).Warn("structured file unreadable, using table file")
		return tomlEntries, true, nil

	default:
		return nil, false, jsonErr
	}
}

// loadFormat reads one physical file. A missing file is an empty log.
// Per-record anomalies are logged here; only whole-file failures
// propagate as errors.
func (s *Store) loadFormat(path string, decode func([]byte) ([]pkglog.Entry, []Anomaly, error)) ([]pkglog.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newCodecError(path, "read log file", err)
	}

	entries, anomalies, err := decode(data)
	if err != nil {
		if se, ok := err.(*StoreError); ok {
			se.Path = path
		}
		return nil, err
	}
	for _, a := range anomalies {
		s.log.WithField("file", path).Warnf("skipping malformed record: %s", a)
	}
	return entries, nil
}

// Stats summarizes a scope's history for the status command.
type Stats struct {
	Scope     pkglog.Scope `json:"scope"`
	Total     int          `json:"total"`
	Installed int          `json:"installed"`
	Removed   int          `json:"removed"`
	Downloads int          `json:"downloads"`
}

// ReadStats computes summary counts over the full history.
func (s *Store) ReadStats(ctx context.Context) (Stats, error) {
	entries, err := s.ReadAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Scope: s.scope, Total: len(entries)}
	for _, e := range entries {
		switch {
		case e.Removed:
			stats.Removed++
		case e.Manager == "download":
			stats.Downloads++
			stats.Installed++
		default:
			stats.Installed++
		}
	}
	return stats, nil
}
