package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/config"
	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// NewSetupCommand creates the setup command.
func NewSetupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "setup",
		Short:         "Create configuration and log directories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(rootOpts, cmd)
		},
	}

	return cmd
}

func runSetup(rootOpts *RootOptions, cmd *cobra.Command) error {
	inv, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}
	out := formatter(rootOpts, cmd)

	configPath := config.UserConfigPath()
	if inv.scope == pkglog.ScopeSystem {
		configPath = config.SystemConfigPath()
	}

	// Opening the store already created the log directory; persist the
	// effective configuration unless one exists.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := inv.cfg.Write(configPath); err != nil {
			out.Error("INTERNAL", err.Error(), nil)
			return WrapExitError(ExitFailure, "write configuration", err)
		}
	}

	fmt.Fprintf(out.Writer, "Setup complete for %s scope.\n", inv.scope)
	fmt.Fprintf(out.Writer, "Log directory: %s\n", inv.store.Dir())
	fmt.Fprintf(out.Writer, "Configuration: %s\n", configPath)
	return nil
}
