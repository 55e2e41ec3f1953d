package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Append durably records one new entry in both physical formats.
//
// On success a subsequent read through either format yields the entry
// as the last element. On failure neither file contains a partial
// record: each format is written via temp-file-then-rename, and if the
// second format's write fails the first is rolled back to its prior
// durable content before the error is reported.
func (s *Store) Append(ctx context.Context, entry pkglog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.Scope != s.scope {
		return &pkglog.ValidationError{
			Field:   "scope",
			Message: fmt.Sprintf("entry scope %q does not match store scope %q", entry.Scope, s.scope),
		}
	}

	release, err := s.acquireExclusive(ctx)
	if err != nil {
		return err
	}
	defer release()

	entries, healed, err := s.loadPreferred()
	if err != nil {
		// Both formats unreadable. Starting over would erase history, so
		// refuse; the operator has to repair or remove the files.
		return err
	}
	if healed {
		s.log.Info("log formats diverged, rewriting both from merged history")
	}

	return s.writeBoth(append(entries, entry))
}

// MarkRemoved appends a removal record for the most recent matching
// install of (name, manager). History is never rewritten: the install
// record stays, the removal is a new record with the removal flag set.
// Version and metadata carry over from the matched install.
//
// When no prior install exists a standalone removal record is still
// appended, so removal provenance is never silently dropped.
func (s *Store) MarkRemoved(ctx context.Context, name, manager string) (pkglog.Entry, error) {
	if name == "" {
		return pkglog.Entry{}, &pkglog.ValidationError{Field: "name", Message: "must be non-empty"}
	}
	if manager == "" {
		return pkglog.Entry{}, &pkglog.ValidationError{Field: "manager", Message: "must be non-empty"}
	}

	release, err := s.acquireExclusive(ctx)
	if err != nil {
		return pkglog.Entry{}, err
	}
	defer release()

	entries, _, err := s.loadPreferred()
	if err != nil {
		return pkglog.Entry{}, err
	}

	removal := pkglog.Entry{
		Name:      name,
		Manager:   manager,
		Action:    pkglog.ActionRemove,
		Timestamp: s.now(),
		Removed:   true,
		Scope:     s.scope,
	}
	if prior, ok := latestInstall(entries, name, manager); ok {
		removal.Version = prior.Version
		removal.Metadata = prior.Metadata
	} else {
		s.log.WithField("name", name).WithField("manager", manager).
			Debug("no prior install record, logging standalone removal")
	}

	if err := s.writeBoth(append(entries, removal)); err != nil {
		return pkglog.Entry{}, err
	}
	return removal, nil
}

// latestInstall finds the most recent non-removed install record for
// the (name, manager) pair.
func latestInstall(entries []pkglog.Entry, name, manager string) (pkglog.Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Name == name && e.Manager == manager && e.Action == pkglog.ActionInstall && !e.Removed {
			return e, true
		}
	}
	return pkglog.Entry{}, false
}

// writeBoth encodes the full sequence into both formats and installs
// them atomically. Encoding happens before any file is touched so a
// codec failure cannot leave the pair half-updated.
func (s *Store) writeBoth(entries []pkglog.Entry) error {
	jsonData, err := encodeJSON(entries)
	if err != nil {
		return err
	}
	tomlData, err := encodeTOML(entries)
	if err != nil {
		return err
	}

	priorJSON, priorJSONExists, err := snapshotFile(s.jsonPath)
	if err != nil {
		return newCodecError(s.jsonPath, "snapshot prior content", err)
	}

	if err := atomicWrite(s.jsonPath, jsonData); err != nil {
		return fmt.Errorf("write %s: %w", s.jsonPath, err)
	}
	if err := atomicWrite(s.tomlPath, tomlData); err != nil {
		// Roll the structured file back so the pair stays consistent at
		// its prior durable state.
		if priorJSONExists {
			if rbErr := atomicWrite(s.jsonPath, priorJSON); rbErr != nil {
				s.log.WithError(rbErr).Error("rollback of structured file failed")
			}
		} else {
			if rbErr := os.Remove(s.jsonPath); rbErr != nil {
				s.log.WithError(rbErr).Error("rollback of structured file failed")
			}
		}
		return fmt.Errorf("write %s: %w", s.tomlPath, err)
	}
	return nil
}

func snapshotFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// atomicWrite replaces path's content via a temp file in the same
// directory, fsynced before rename. A crash at any point leaves either
// the old complete file or the new complete file, never a torn one.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
