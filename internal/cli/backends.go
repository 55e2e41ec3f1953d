package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/backend"
	"github.com/P-R-E-Z/prez-pkglog/internal/logging"
)

// BackendsOptions holds flags for the backends command.
type BackendsOptions struct {
	*RootOptions
	Installed string
}

// NewBackendsCommand creates the backends command.
func NewBackendsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackendsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List package-manager backends discovered on this host",
		Long: `List package-manager backends discovered on this host.

With --installed <backend>, enumerate that backend's installed packages
instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackends(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Installed, "installed", "", "list installed packages for one backend")

	return cmd
}

func runBackends(opts *BackendsOptions, cmd *cobra.Command) error {
	inv, err := load(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	out := formatter(opts.RootOptions, cmd)

	registry := backend.Discover(inv.cfg, logging.Component(inv.log, "backend"))

	if opts.Installed != "" {
		b, ok := registry.Lookup(opts.Installed)
		if !ok {
			err := &backend.UnavailableError{Backend: opts.Installed}
			out.Error(reasonCode(err), err.Error(), nil)
			return WrapExitError(ExitCommandError, "backends", err)
		}
		packages, err := b.InstalledPackages(cmd.Context())
		if err != nil {
			out.Error(reasonCode(err), err.Error(), nil)
			return WrapExitError(ExitFailure, "enumerate packages", err)
		}
		if opts.Format == "json" {
			return out.Success(packages)
		}
		for name, info := range packages {
			if info.Version != "" {
				fmt.Fprintf(out.Writer, "%s %s\n", name, info.Version)
			} else {
				fmt.Fprintln(out.Writer, name)
			}
		}
		fmt.Fprintf(out.Writer, "%d packages\n", len(packages))
		return nil
	}

	names := registry.Names()
	if opts.Format == "json" {
		return out.Success(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(out.Writer, "No backends available.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out.Writer, name)
	}
	return nil
}
