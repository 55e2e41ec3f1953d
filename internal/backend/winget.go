package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Winget integrates Windows hosts via the winget CLI.
type Winget struct {
	log *logrus.Entry
}

// NewWinget creates the winget backend.
func NewWinget(log *logrus.Entry) *Winget {
	return &Winget{log: log.WithField("backend", "winget")}
}

func (w *Winget) Name() string { return "winget" }

func (w *Winget) Available() bool {
	return haveExecutable("winget")
}

func (w *Winget) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !w.Available() {
		return nil, &UnavailableError{Backend: w.Name()}
	}

	out, err := runCommand(ctx, "winget", "list", "--disable-interactivity")
	if err != nil {
		return nil, fmt.Errorf("winget list: %w", err)
	}
	return parseWingetOutput(out), nil
}

// parseWingetOutput reads winget's column layout: a header line, a
// dashed separator, then "Name  Id  Version ..." rows separated by
// runs of two or more spaces.
func parseWingetOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	pastHeader := false
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if !pastHeader {
			if strings.HasPrefix(line, "---") {
				pastHeader = true
			}
			continue
		}
		cols := splitColumns(line)
		if len(cols) < 3 {
			continue
		}
		packages[cols[0]] = pkglog.PackageInfo{
			Name:    cols[0],
			Version: cols[2],
			Source:  cols[1],
		}
	}
	return packages
}

// splitColumns splits on runs of two or more spaces.
func splitColumns(line string) []string {
	var cols []string
	for _, part := range strings.Split(line, "  ") {
		part = strings.TrimSpace(part)
		if part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

func (w *Winget) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, w.Name(), tx, rec, w.log)
}
