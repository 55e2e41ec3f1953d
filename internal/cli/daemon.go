package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/backend"
	"github.com/P-R-E-Z/prez-pkglog/internal/logging"
	"github.com/P-R-E-Z/prez-pkglog/internal/monitor"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// NewDaemonCommand creates the daemon command.
func NewDaemonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the downloads monitor until interrupted",
		Long: `Run the downloads monitor until interrupted.

Download monitoring is only available in user scope; the monitor
appends through the same store locking path as every other writer, so
it coexists with package-manager hooks firing concurrently.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(rootOpts, cmd)
		},
	}

	return cmd
}

func runDaemon(rootOpts *RootOptions, cmd *cobra.Command) error {
	inv, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}
	out := formatter(rootOpts, cmd)

	if inv.scope != pkglog.ScopeUser {
		err := fmt.Errorf("download monitoring is only available in user scope")
		out.Error("VALIDATION", err.Error(), nil)
		return WrapExitError(ExitCommandError, "daemon", err)
	}
	if !inv.cfg.EnableDownloadMonitor {
		err := fmt.Errorf("download monitoring is disabled in configuration")
		out.Error("VALIDATION", err.Error(), nil)
		return WrapExitError(ExitCommandError, "daemon", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	download := backend.NewDownload(inv.cfg.DownloadsDir, inv.cfg.PackageExtensions,
		logging.Component(inv.log, "backend"))
	mon := monitor.New(download, inv.store, logging.Component(inv.log, "monitor"))

	fmt.Fprintf(out.Writer, "Monitoring %s (scope: %s). Press Ctrl+C to stop.\n",
		inv.cfg.DownloadsDir, inv.scope)

	if err := mon.Run(ctx); err != nil {
		out.Error("INTERNAL", err.Error(), nil)
		return WrapExitError(ExitFailure, "downloads monitor", err)
	}

	fmt.Fprintln(out.Writer, "Monitoring stopped.")
	return nil
}
