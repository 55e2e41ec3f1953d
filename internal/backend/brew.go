package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Brew integrates macOS hosts via Homebrew.
type Brew struct {
	log *logrus.Entry
}

// NewBrew creates the brew backend.
func NewBrew(log *logrus.Entry) *Brew {
	return &Brew{log: log.WithField("backend", "brew")}
}

func (b *Brew) Name() string { return "brew" }

func (b *Brew) Available() bool {
	return haveExecutable("brew")
}

func (b *Brew) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !b.Available() {
		return nil, &UnavailableError{Backend: b.Name()}
	}

	out, err := runCommand(ctx, "brew", "list", "--versions")
	if err != nil {
		return nil, fmt.Errorf("brew list: %w", err)
	}
	return parseBrewOutput(out), nil
}

// parseBrewOutput reads "name v1 [v2 ...]" lines; the last version
// listed is the most recently installed one.
func parseBrewOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		packages[fields[0]] = pkglog.PackageInfo{
			Name:    fields[0],
			Version: fields[len(fields)-1],
		}
	}
	return packages
}

func (b *Brew) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, b.Name(), tx, rec, b.log)
}
