package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/engine"
	"github.com/draftbill/draftbill/internal/store"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	ID    string
	Name  string
	Index int
	Kind  string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <field> <value>",
		Short: "Update one field of an existing payload record",
		Long: `Update one field of an existing payload record.

The record is located by --id, by --name (fuzzy, case-insensitive), or by
--index with --kind. The new value is re-validated before anything changes:
a rejected value leaves the record untouched and reports the field-scoped
reason. Resolving a placeholder this way removes it from the outstanding
set.

Values are parsed as JSON where possible ('49.99', 'true', '["a"]');
anything that does not parse is taken as a plain string.

Example:
  draftbill update SKU ANALYTICS-PRO --name "analytics pro"
  draftbill update BillingPeriod Month --kind product_rate_plan_charge --index 0`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "locate the record by payload id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "locate the record by (fuzzy) name")
	cmd.Flags().IntVar(&opts.Index, "index", -1, "locate the record by positional index (requires --kind)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "entity kind scoping --name and --index lookups")

	return cmd
}

func runUpdate(opts *UpdateOptions, field, rawValue string, cmd *cobra.Command) error {
	f := formatterFor(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loc, err := buildLocator(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.close()

	r, err := rt.eng.UpdatePayload(loc, field, decodeValue(rawValue))
	if err != nil {
		return writeOperationError(f, err)
	}
	if err := rt.save(ctx); err != nil {
		return err
	}

	f.VerboseLog("updated %s on %s", field, r.ID)
	return writeRecord(f, r, remainingOutstanding(r))
}

func buildLocator(opts *UpdateOptions) (store.Locator, error) {
	loc := store.Locator{
		ID:   opts.ID,
		Name: opts.Name,
		Kind: catalog.EntityKind(opts.Kind),
	}
	if opts.Index >= 0 {
		if opts.Kind == "" {
			return store.Locator{}, NewExitError(ExitCommandError, "--index requires --kind")
		}
		idx := opts.Index
		loc.Index = &idx
	}
	if loc.ID == "" && loc.Name == "" && loc.Index == nil {
		return store.Locator{}, NewExitError(ExitCommandError, "locate the record with --id, --name, or --index")
	}
	return loc, nil
}

// decodeValue parses a CLI value argument as JSON (with numeric fidelity)
// when it parses, and as a plain string otherwise.
func decodeValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return raw
	}
	if dec.More() {
		return raw
	}
	return v
}

// remainingOutstanding rebuilds the outstanding view for a record after an
// update, so output always shows what is still unresolved.
func remainingOutstanding(r *catalog.Record) []engine.Outstanding {
	var out []engine.Outstanding
	for _, name := range r.PlaceholderFields() {
		v, _ := r.Fields.Get(name)
		p, _ := v.(catalog.PlaceholderValue)
		out = append(out, engine.Outstanding{Field: name, Reason: p.Reason})
	}
	return out
}
