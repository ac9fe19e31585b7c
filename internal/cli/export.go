package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the batch for the executor",
		Long: `Export the session's payload batch as a JSON array in append order.

Forward-reference tokens (e.g. @{Product[0].Id}) are left unresolved:
resolving them against created entities, and ordering requests by
dependency, is the executor's job. Placeholder sentinels are exported
verbatim too, so the executor can refuse incomplete records.

Example:
  draftbill export -o batch.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.close()

	out, err := rt.eng.Export()
	if err != nil {
		return WrapExitError(ExitCommandError, "serialize batch", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write export file", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d payload(s) to %s\n", rt.eng.Store().Len(), opts.Output)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
