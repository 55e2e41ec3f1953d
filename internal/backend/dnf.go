package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Dnf integrates Fedora/RHEL hosts. Enumeration goes through rpm
// directly since the rpm database is the source of truth regardless of
// which dnf frontend drove the transaction.
type Dnf struct {
	log *logrus.Entry
}

// NewDnf creates the dnf backend.
func NewDnf(log *logrus.Entry) *Dnf {
	return &Dnf{log: log.WithField("backend", "dnf")}
}

func (d *Dnf) Name() string { return "dnf" }

func (d *Dnf) Available() bool {
	return haveExecutable("dnf") && haveExecutable("rpm")
}

const rpmQueryFormat = `%{NAME}\t%{VERSION}-%{RELEASE}\t%{ARCH}\t%{VENDOR}\n`

func (d *Dnf) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !d.Available() {
		return nil, &UnavailableError{Backend: d.Name()}
	}

	out, err := runCommand(ctx, "rpm", "-qa", "--qf", rpmQueryFormat)
	if err != nil {
		return nil, fmt.Errorf("rpm query: %w", err)
	}
	return parseRpmOutput(out), nil
}

func parseRpmOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		info := pkglog.PackageInfo{
			Name:         fields[0],
			Version:      fields[1],
			Architecture: fields[2],
		}
		if len(fields) > 3 && fields[3] != "(none)" {
			info.Source = fields[3]
		}
		packages[info.Name] = info
	}
	return packages
}

func (d *Dnf) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, d.Name(), tx, rec, d.log)
}
