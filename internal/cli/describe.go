package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/schema"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <kind>",
		Short: "Show the required fields for an entity kind",
		Long: `Show the required fields for an entity kind, in schema order, with
descriptions, clarifying questions, and allowed options where the value
set is closed.

Example:
  draftbill describe product_rate_plan_charge`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDescribe(opts *RootOptions, kindTag string, cmd *cobra.Command) error {
	f := formatterFor(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	fields, err := rt.eng.DescribeSchema(catalog.EntityKind(kindTag))
	if err != nil {
		return writeOperationError(f, err)
	}

	if f.Format == "json" {
		type fieldView struct {
			Name           string   `json:"name"`
			Description    string   `json:"description,omitempty"`
			Prompt         string   `json:"prompt"`
			Examples       []string `json:"examples,omitempty"`
			Recommendation string   `json:"recommendation,omitempty"`
			Options        []string `json:"options,omitempty"`
		}
		views := make([]fieldView, 0, len(fields))
		for _, spec := range fields {
			views = append(views, fieldView{
				Name:           spec.Name,
				Description:    spec.Description,
				Prompt:         spec.Question.Prompt,
				Examples:       spec.Question.Examples,
				Recommendation: spec.Question.Recommendation,
				Options:        spec.Options,
			})
		}
		return f.Success(views)
	}

	fmt.Fprintf(f.Writer, "%s requires:\n", schema.FriendlyKind(kindTag))
	for _, spec := range fields {
		fmt.Fprintf(f.Writer, "  %s", spec.Name)
		if spec.Description != "" {
			fmt.Fprintf(f.Writer, " -- %s", spec.Description)
		}
		fmt.Fprintln(f.Writer)
		if len(spec.Options) > 0 {
			fmt.Fprintf(f.Writer, "    options: %s\n", schema.FriendlyOptions(spec.Options, 5))
		}
		if spec.Question.Prompt != "" && opts.Verbose {
			fmt.Fprintf(f.Writer, "    ask: %s", spec.Question.Prompt)
			if len(spec.Question.Examples) > 0 {
				fmt.Fprintf(f.Writer, " (e.g., %s)", strings.Join(spec.Question.Examples, ", "))
			}
			fmt.Fprintln(f.Writer)
		}
	}
	return nil
}
