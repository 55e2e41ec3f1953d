package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	FileFormat string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Emit the raw log file for the scope",
		Long: `Emit the raw log file for the scope on stdout.

--log-format selects which physical file to emit: the structured JSON
record file or the human-editable TOML table file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FileFormat, "log-format", "json", "log file to emit (json|toml)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	inv, err := load(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	out := formatter(opts.RootOptions, cmd)

	var path string
	switch opts.FileFormat {
	case "json":
		path = inv.store.JSONPath()
	case "toml":
		path = inv.store.TOMLPath()
	default:
		err := fmt.Errorf("invalid log format %q: must be json or toml", opts.FileFormat)
		out.Error("VALIDATION", err.Error(), nil)
		return WrapExitError(ExitCommandError, "export", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// An empty history exports as nothing rather than failing.
			return nil
		}
		out.Error(reasonCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "read log file", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
