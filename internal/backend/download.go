package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Download is the filesystem-event integration: it treats package-like
// files appearing in the downloads directory as installs. The downloads
// monitor feeds it watch events translated into transactions; the
// enumeration side lists matching files currently present.
type Download struct {
	dir        string
	extensions map[string]bool
	log        *logrus.Entry
}

// NewDownload creates the download backend watching dir for files with
// the given extensions (lower-case, dot-prefixed).
func NewDownload(dir string, extensions []string, log *logrus.Entry) *Download {
	allow := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allow[strings.ToLower(ext)] = true
	}
	return &Download{
		dir:        dir,
		extensions: allow,
		log:        log.WithField("backend", "download"),
	}
}

func (d *Download) Name() string { return "download" }

// Dir returns the watched downloads directory.
func (d *Download) Dir() string { return d.dir }

// Matches reports whether path's extension is on the allow-list.
func (d *Download) Matches(path string) bool {
	return d.extensions[strings.ToLower(filepath.Ext(path))]
}

func (d *Download) Available() bool {
	info, err := os.Stat(d.dir)
	return err == nil && info.IsDir()
}

// InstalledPackages lists the package-like files currently present in
// the downloads directory.
func (d *Download) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !d.Available() {
		return nil, &UnavailableError{Backend: d.Name()}
	}

	dirents, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, &UnavailableError{Backend: d.Name(), Err: err}
	}

	packages := make(map[string]pkglog.PackageInfo)
	for _, de := range dirents {
		if de.IsDir() || !d.Matches(de.Name()) {
			continue
		}
		name := de.Name()
		packages[name] = pkglog.PackageInfo{
			Name:   name,
			Source: filepath.Join(d.dir, name),
		}
	}
	return packages, nil
}

func (d *Download) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, d.Name(), tx, rec, d.log)
}
