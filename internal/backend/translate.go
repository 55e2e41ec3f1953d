package backend

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// now is indirected for deterministic timestamps in tests.
var now = time.Now

// translateTransaction turns a transaction's install and remove sets
// into log records. Each package is handled independently: a failure is
// logged and skipped so one bad package never blocks the rest. Only a
// transaction in which every package failed reports an error.
func translateTransaction(ctx context.Context, backendName string, tx pkglog.Transaction, rec Recorder, log *logrus.Entry) error {
	total := len(tx.InstallSet) + len(tx.RemoveSet)
	if total == 0 {
		return nil
	}

	failed := 0
	for _, pkg := range tx.InstallSet {
		entry, err := installEntryFor(backendName, pkg, rec.Scope())
		if err == nil {
			err = rec.Append(ctx, entry)
		}
		if err != nil {
			failed++
			log.WithError(err).WithField("package", pkg.Name).
				Warn("skipping package install in transaction")
		}
	}
	for _, pkg := range tx.RemoveSet {
		if pkg.Name == "" {
			failed++
			log.Warn("skipping unnamed package removal in transaction")
			continue
		}
		if _, err := rec.MarkRemoved(ctx, pkg.Name, backendName); err != nil {
			failed++
			log.WithError(err).WithField("package", pkg.Name).
				Warn("skipping package removal in transaction")
		}
	}

	if failed == total {
		return &TranslationError{Backend: backendName, Failed: failed, Total: total}
	}
	return nil
}

// installEntryFor builds the log record for one installed package.
func installEntryFor(backendName string, pkg pkglog.PackageInfo, scope pkglog.Scope) (pkglog.Entry, error) {
	entry := pkglog.Entry{
		Name:      pkg.Name,
		Manager:   backendName,
		Action:    pkglog.ActionInstall,
		Timestamp: now(),
		Scope:     scope,
		Version:   pkg.Version,
	}

	md := pkglog.Metadata{}
	if pkg.Architecture != "" {
		md["arch"] = pkg.Architecture
	}
	if pkg.Repository != "" {
		md["repo"] = pkg.Repository
	}
	if pkg.Source != "" {
		md["source"] = pkg.Source
	}
	if len(md) > 0 {
		entry.Metadata = md
	}

	if err := entry.Validate(); err != nil {
		return pkglog.Entry{}, err
	}
	return entry, nil
}
