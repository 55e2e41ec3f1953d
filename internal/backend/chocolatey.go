package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Chocolatey integrates Windows hosts via choco.
type Chocolatey struct {
	log *logrus.Entry
}

// NewChocolatey creates the chocolatey backend.
func NewChocolatey(log *logrus.Entry) *Chocolatey {
	return &Chocolatey{log: log.WithField("backend", "chocolatey")}
}

func (c *Chocolatey) Name() string { return "chocolatey" }

func (c *Chocolatey) Available() bool {
	return haveExecutable("choco")
}

func (c *Chocolatey) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !c.Available() {
		return nil, &UnavailableError{Backend: c.Name()}
	}

	// --limit-output gives pipe-delimited "name|version" lines.
	out, err := runCommand(ctx, "choco", "list", "--local-only", "--limit-output")
	if err != nil {
		return nil, fmt.Errorf("choco list: %w", err)
	}
	return parseChocoOutput(out), nil
}

func parseChocoOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		packages[parts[0]] = pkglog.PackageInfo{Name: parts[0], Version: parts[1]}
	}
	return packages
}

func (c *Chocolatey) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, c.Name(), tx, rec, c.log)
}
