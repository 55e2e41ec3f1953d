package backend

import (
	"context"
	"os/exec"
	"time"
)

// commandTimeout bounds any single shell-out to a package manager.
const commandTimeout = 30 * time.Second

// lookPath and runCommand are indirected so tests can stub the host's
// tooling without spawning processes.
var (
	lookPath = exec.LookPath

	runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		return exec.CommandContext(ctx, name, args...).Output()
	}
)

// haveExecutable reports whether name resolves on PATH.
func haveExecutable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
