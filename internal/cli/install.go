package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

// InstallOptions holds flags for the install command.
type InstallOptions struct {
	*RootOptions
	Version  string
	Metadata []string
}

// NewInstallCommand creates the install command.
func NewInstallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InstallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "install <name> <manager>",
		Short: "Record a package installation",
		Long: `Record a package installation in the scope's history.

Example:
  prez-pkglog install neovim dnf --version 0.10.0 --meta arch=x86_64`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "package version")
	cmd.Flags().StringArrayVar(&opts.Metadata, "meta", nil, "metadata key=value (repeatable)")

	return cmd
}

func runInstall(opts *InstallOptions, name, manager string, cmd *cobra.Command) error {
	inv, err := load(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	out := formatter(opts.RootOptions, cmd)

	metadata, err := parseMetadata(opts.Metadata)
	if err != nil {
		out.Error("VALIDATION", err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse metadata", err)
	}

	entry := pkglog.Entry{
		Name:      name,
		Manager:   manager,
		Action:    pkglog.ActionInstall,
		Timestamp: time.Now(),
		Scope:     inv.scope,
		Version:   opts.Version,
		Metadata:  metadata,
	}

	if err := inv.store.Append(cmd.Context(), entry); err != nil {
		out.Error(reasonCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "record install", err)
	}

	return out.Success(fmt.Sprintf("Logged install of %s via %s (%s scope)", name, manager, inv.scope))
}

// parseMetadata turns --meta key=value pairs into entry metadata.
func parseMetadata(pairs []string) (pkglog.Metadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	md := make(pkglog.Metadata, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("metadata %q is not key=value", pair)
		}
		md[key] = value
	}
	return md, nil
}
