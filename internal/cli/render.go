package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/engine"
	"github.com/draftbill/draftbill/internal/schema"
	"github.com/draftbill/draftbill/internal/validate"
)

// recordView is the JSON shape commands emit for one payload record.
type recordView struct {
	Record      json.RawMessage   `json:"record"`
	Outstanding []outstandingView `json:"outstanding,omitempty"`
}

// outstandingView dresses an unresolved field with its clarifying question.
type outstandingView struct {
	Field  string `json:"field"`
	Reason string `json:"reason,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

func outstandingViews(kind catalog.EntityKind, outstanding []engine.Outstanding) []outstandingView {
	views := make([]outstandingView, 0, len(outstanding))
	for _, o := range outstanding {
		views = append(views, outstandingView{
			Field:  o.Field,
			Reason: o.Reason,
			Prompt: schema.QuestionFor(string(kind), o.Field).Prompt,
		})
	}
	return views
}

// writeRecord emits one record plus its outstanding fields in the
// configured format.
func writeRecord(f *OutputFormatter, r *catalog.Record, outstanding []engine.Outstanding) error {
	if f.Format == "json" {
		wire, err := r.MarshalWire()
		if err != nil {
			return WrapExitError(ExitCommandError, "serialize record", err)
		}
		return f.Success(recordView{
			Record:      wire,
			Outstanding: outstandingViews(r.Kind, outstanding),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (position %d)\n", string(r.Kind), r.ID, r.PositionalIndex)
	writeFieldLines(&b, r.Fields)
	if r.Extensions.Len() > 0 {
		b.WriteString("  extensions:\n")
		writeFieldLines(&b, r.Extensions)
	}
	if len(outstanding) > 0 {
		b.WriteString("Outstanding:\n")
		for _, v := range outstandingViews(r.Kind, outstanding) {
			fmt.Fprintf(&b, "  %s", v.Field)
			if v.Reason != "" {
				fmt.Fprintf(&b, " (%s)", v.Reason)
			}
			if v.Prompt != "" {
				fmt.Fprintf(&b, " -- %s", v.Prompt)
			}
			b.WriteByte('\n')
		}
	}
	_, err := fmt.Fprint(f.Writer, b.String())
	return err
}

func writeFieldLines(b *strings.Builder, fields *catalog.FieldMap) {
	for _, name := range fields.Names() {
		v, _ := fields.Get(name)
		fmt.Fprintf(b, "  %s: %s\n", name, renderValue(v))
	}
}

func renderValue(v catalog.Value) string {
	wire := catalog.WireValue(v)
	if s, ok := wire.(string); ok {
		return s
	}
	out, err := json.Marshal(wire)
	if err != nil {
		return fmt.Sprintf("%v", wire)
	}
	return string(out)
}

// writeOperationError maps a rejection or engine error to formatter output
// and an exit code. Unexpected errors pass through untouched.
func writeOperationError(f *OutputFormatter, err error) error {
	if rej, ok := validate.AsRejection(err); ok {
		if werr := f.Error(string(rej.Code), rej.Field, rej.Message); werr != nil {
			return werr
		}
		return NewExitError(ExitFailure, rej.Error())
	}
	var ee *engine.EngineError
	if errors.As(err, &ee) {
		if werr := f.Error(string(ee.Code), ee.Field, ee.Message); werr != nil {
			return werr
		}
		return NewExitError(ExitFailure, ee.Error())
	}
	return err
}

// formatterFor builds the output formatter for one command invocation.
func formatterFor(opts *RootOptions, out, errw io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errw,
		Verbose:   opts.Verbose,
	}
}
