package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name> <manager>",
		Short: "Record a package removal",
		Long: `Record a package removal in the scope's history.

The prior install record (when one exists) stays untouched; the removal
is appended as a new record. A removal with no prior install is still
logged so the event is never silently dropped.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runRemove(rootOpts *RootOptions, name, manager string, cmd *cobra.Command) error {
	inv, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}
	out := formatter(rootOpts, cmd)

	if _, err := inv.store.MarkRemoved(cmd.Context(), name, manager); err != nil {
		out.Error(reasonCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "record removal", err)
	}

	return out.Success(fmt.Sprintf("Logged removal of %s via %s (%s scope)", name, manager, inv.scope))
}
