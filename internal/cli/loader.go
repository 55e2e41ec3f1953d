package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/config"
	"github.com/P-R-E-Z/prez-pkglog/internal/logging"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
	"github.com/P-R-E-Z/prez-pkglog/internal/store"
)

// invocation is the immutable context a command operates in: the
// configuration read once at start, the resolved scope, and the store
// bound to that scope. Nothing here changes mid-operation.
type invocation struct {
	cfg   *config.Config
	scope pkglog.Scope
	store *store.Store
	log   *logrus.Logger
}

// load resolves configuration and scope and opens the scope's store.
// Scope failures are command errors: the invocation itself was wrong,
// not the operation.
func load(opts *RootOptions, cmd *cobra.Command) (*invocation, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}

	scope, err := config.ResolveScope(opts.Scope, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve scope", err)
	}

	log := logging.New(cmd.ErrOrStderr(), opts.Verbose)
	st, err := store.Open(scope, cfg.LogDir(scope),
		store.WithLockTimeout(cfg.LockTimeout),
		store.WithLogger(logging.Component(log, "store")),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open log store", err)
	}

	return &invocation{cfg: cfg, scope: scope, store: st, log: log}, nil
}

// formatter builds the output formatter for a command.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
