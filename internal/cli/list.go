package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftbill/draftbill/internal/catalog"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [kind]",
		Short: "List the session's payload records in append order",
		Long: `List the session's payload records in append order, optionally
filtered by kind. Append order is the only order the batch defines.

Example:
  draftbill list
  draftbill list product_rate_plan_charge --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			return runList(rootOpts, kind, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, kindTag string, cmd *cobra.Command) error {
	f := formatterFor(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := rt.eng.ListPayloads(catalog.EntityKind(kindTag))
	if err != nil {
		return writeOperationError(f, err)
	}

	if f.Format == "json" {
		views := make([]json.RawMessage, 0, len(records))
		for _, r := range records {
			wire, err := r.MarshalWire()
			if err != nil {
				return WrapExitError(ExitCommandError, "serialize record", err)
			}
			views = append(views, wire)
		}
		return f.Success(views)
	}

	if len(records) == 0 {
		fmt.Fprintln(f.Writer, "no payloads in this session")
		return nil
	}
	for _, r := range records {
		status := "ready"
		if !r.ExecutionReady() {
			status = fmt.Sprintf("outstanding: %s", strings.Join(r.PlaceholderFields(), ", "))
		}
		name, _ := concreteName(r)
		fmt.Fprintf(f.Writer, "%s[%d] %s  %s  (%s)\n",
			string(r.Kind), r.PositionalIndex, r.ID, name, status)
	}
	return nil
}

func concreteName(r *catalog.Record) (string, bool) {
	v, ok := r.Fields.Get("Name")
	if !ok {
		return "", false
	}
	c, ok := v.(catalog.Concrete)
	if !ok {
		return "(unnamed)", false
	}
	s, ok := c.V.(string)
	if !ok {
		return "(unnamed)", false
	}
	return s, true
}
