package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftbill/draftbill/internal/catalog"
)

// ConstructOptions holds flags for the construct command.
type ConstructOptions struct {
	*RootOptions
	Fields string
}

// NewConstructCommand creates the construct command.
func NewConstructCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConstructOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "construct <kind>",
		Short: "Construct a payload record from partial field data",
		Long: `Construct a payload record from partial field data.

Construction never blocks on missing information: fields that cannot be
validated or defaulted become explicit placeholders, and the output lists
what remains outstanding with a clarifying question for each.

Kinds: product, product_rate_plan, product_rate_plan_charge (plus the
_update variants).

Example:
  draftbill construct product --fields '{"Name":"Analytics Pro"}'
  draftbill construct product_rate_plan --fields '{"Name":"Standard","ProductId":"@{Product[0].Id}"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConstruct(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fields, "fields", "{}", "field data as JSON")

	return cmd
}

func runConstruct(opts *ConstructOptions, kindTag string, cmd *cobra.Command) error {
	f := formatterFor(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	fields, err := decodeFields(opts.Fields)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --fields JSON", err)
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.close()

	r, outstanding, err := rt.eng.ConstructPayload(catalog.EntityKind(kindTag), fields)
	if err != nil {
		return writeOperationError(f, err)
	}
	if err := rt.save(ctx); err != nil {
		return err
	}

	f.VerboseLog("constructed %s %s at position %d", string(r.Kind), r.ID, r.PositionalIndex)
	return writeRecord(f, r, outstanding)
}

// decodeFields parses the --fields JSON with numeric fidelity: prices and
// quantities arrive as json.Number, never float64.
func decodeFields(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return fields, nil
}
