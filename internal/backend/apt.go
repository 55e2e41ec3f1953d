package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Apt integrates Debian/Ubuntu hosts via dpkg-query.
type Apt struct {
	log *logrus.Entry
}

// NewApt creates the apt backend.
func NewApt(log *logrus.Entry) *Apt {
	return &Apt{log: log.WithField("backend", "apt")}
}

func (a *Apt) Name() string { return "apt" }

func (a *Apt) Available() bool {
	return haveExecutable("apt-get") && haveExecutable("dpkg-query")
}

func (a *Apt) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !a.Available() {
		return nil, &UnavailableError{Backend: a.Name()}
	}

	out, err := runCommand(ctx, "dpkg-query", "-W", "-f", "${Package}\t${Version}\t${Architecture}\t${db:Status-Abbrev}\n")
	if err != nil {
		return nil, fmt.Errorf("dpkg-query: %w", err)
	}
	return parseDpkgOutput(out), nil
}

func parseDpkgOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		// Status abbrev "ii " marks a properly installed package; skip
		// half-configured or removed-but-not-purged states.
		if len(fields) > 3 && !strings.HasPrefix(fields[3], "ii") {
			continue
		}
		packages[fields[0]] = pkglog.PackageInfo{
			Name:         fields[0],
			Version:      fields[1],
			Architecture: fields[2],
		}
	}
	return packages
}

func (a *Apt) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, a.Name(), tx, rec, a.log)
}
