package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
	"github.com/P-R-E-Z/prez-pkglog/internal/query"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Name    string
	Manager string
	Days    int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List logged entries matching simple filters",
		Long: `List logged entries matching simple filters, in append order.

Name matches as a case-insensitive substring, manager matches exactly,
and --days keeps entries from the last N days.

Example:
  prez-pkglog query --manager dnf --days 30`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "case-insensitive name substring")
	cmd.Flags().StringVar(&opts.Manager, "manager", "", "exact manager match")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "only entries from the last N days")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	inv, err := load(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	out := formatter(opts.RootOptions, cmd)

	entries, err := inv.store.ReadAll(cmd.Context())
	if err != nil {
		out.Error(reasonCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "read history", err)
	}

	matched := query.Run(entries, query.Filter{
		Name:    opts.Name,
		Manager: opts.Manager,
		Since:   time.Duration(opts.Days) * 24 * time.Hour,
	})

	if opts.Format == "json" {
		return out.Success(matched)
	}
	writeEntryTable(out, matched)
	return nil
}

// writeEntryTable renders entries as aligned text lines.
func writeEntryTable(out *OutputFormatter, entries []pkglog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out.Writer, "No entries found.")
		return
	}
	for _, e := range entries {
		state := "installed"
		if e.Removed {
			state = "removed"
		}
		line := fmt.Sprintf("%s  %-9s  %-10s  %s",
			e.Timestamp.Format(time.RFC3339), state, e.Manager, e.Name)
		if e.Version != "" {
			line += " " + e.Version
		}
		fmt.Fprintln(out.Writer, line)
	}
	fmt.Fprintf(out.Writer, "%d entries\n", len(entries))
}
