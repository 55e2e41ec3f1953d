package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// Pacman integrates Arch hosts.
type Pacman struct {
	log *logrus.Entry
}

// NewPacman creates the pacman backend.
func NewPacman(log *logrus.Entry) *Pacman {
	return &Pacman{log: log.WithField("backend", "pacman")}
}

func (p *Pacman) Name() string { return "pacman" }

func (p *Pacman) Available() bool {
	return haveExecutable("pacman")
}

func (p *Pacman) InstalledPackages(ctx context.Context) (map[string]pkglog.PackageInfo, error) {
	if !p.Available() {
		return nil, &UnavailableError{Backend: p.Name()}
	}

	out, err := runCommand(ctx, "pacman", "-Q")
	if err != nil {
		return nil, fmt.Errorf("pacman -Q: %w", err)
	}
	return parsePacmanOutput(out), nil
}

// parsePacmanOutput reads "name version" lines.
func parsePacmanOutput(out []byte) map[string]pkglog.PackageInfo {
	packages := make(map[string]pkglog.PackageInfo)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		packages[fields[0]] = pkglog.PackageInfo{Name: fields[0], Version: fields[1]}
	}
	return packages
}

func (p *Pacman) RegisterTransaction(ctx context.Context, tx pkglog.Transaction, rec Recorder) error {
	return translateTransaction(ctx, p.Name(), tx, rec, p.log)
}
