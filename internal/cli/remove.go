package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <payload-id>",
		Short: "Remove a payload record from the batch",
		Long: `Remove a payload record from the batch by id.

This is the rollback hook for a failed remote execution. Remaining
records keep their positional indices; freed indices are never reused,
so existing forward references stay valid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runRemove(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := formatterFor(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.eng.Remove(id); err != nil {
		return writeOperationError(f, err)
	}
	if err := rt.save(ctx); err != nil {
		return err
	}
	if f.Format == "json" {
		return f.Success(map[string]string{"removed": id})
	}
	fmt.Fprintf(f.Writer, "removed %s\n", id)
	return nil
}
