package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show current status and statistics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}

	return cmd
}

func runStatus(rootOpts *RootOptions, cmd *cobra.Command) error {
	inv, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}
	out := formatter(rootOpts, cmd)

	stats, err := inv.store.ReadStats(cmd.Context())
	if err != nil {
		out.Error(reasonCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "read statistics", err)
	}

	if rootOpts.Format == "json" {
		return out.Success(stats)
	}

	fmt.Fprintf(out.Writer, "Scope: %s\n", stats.Scope)
	fmt.Fprintf(out.Writer, "Total packages logged: %d\n", stats.Total)
	fmt.Fprintf(out.Writer, "Installed: %d\n", stats.Installed)
	fmt.Fprintf(out.Writer, "Removed: %d\n", stats.Removed)
	fmt.Fprintf(out.Writer, "Downloads: %d\n", stats.Downloads)
	fmt.Fprintf(out.Writer, "Log location: %s\n", inv.store.Dir())
	return nil
}
