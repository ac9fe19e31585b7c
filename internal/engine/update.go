package engine

import (
	"fmt"
	"log/slog"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/store"
	"github.com/draftbill/draftbill/internal/validate"
)

// UpdatePayload overwrites one field of an existing record. The locator is
// an id, a fuzzy name, or a kind-scoped positional index; the field path
// resolves case-insensitively against schema fields and extensions alike.
//
// The new value is validated before anything is mutated: on rejection the
// record is left untouched and the rejection (or reference error) is
// returned. Setting a field to the value it already holds is a no-op.
// A locator that resolves to no record returns a not-found error and the
// store is unchanged.
func (e *Engine) UpdatePayload(loc store.Locator, fieldPath string, newValue any) (*catalog.Record, error) {
	rec, ok := e.store.Find(loc)
	if !ok {
		return nil, NewNotFoundError(loc.Kind, locatorString(loc))
	}

	v := catalog.ValueFromWire(newValue)

	// Fields outside the kind's schema live in the extension bag and are
	// stored verbatim, never validated or defaulted.
	if !rec.Fields.Has(fieldPath) && !e.schemas.Knows(rec.Kind, fieldPath) {
		if existing, ok := rec.Extensions.Get(fieldPath); ok && catalog.ValueEqual(existing, v) {
			return rec, nil
		}
		rec.SetExtension(fieldPath, v)
		rec.UpdatedTurn = e.turn
		return rec, nil
	}

	name := e.canonicalFieldName(rec, fieldPath)

	// Idempotent: re-supplying the held value changes nothing, not even
	// the turn stamp.
	if existing, ok := rec.Fields.Get(name); ok && catalog.ValueEqual(existing, v) {
		return rec, nil
	}

	if _, parentField, ok := rec.Kind.Parent(); ok && foldField(name) == foldField(parentField) {
		resolved, err := e.resolveParentValue(rec.Kind, name, v, true)
		if err != nil {
			return nil, err
		}
		rec.SetField(name, resolved)
		rec.UpdatedTurn = e.turn
		e.requiredSweep(rec)
		slog.Info("payload updated", "id", rec.ID, "field", name)
		return rec, nil
	}

	checked, rej := e.checkField(rec.Kind, name, v)
	if rej != nil {
		return nil, rej
	}

	if nameField := e.schemas.NameField(rec.Kind); nameField != "" && foldField(name) == foldField(nameField) {
		if c, ok := checked.(catalog.Concrete); ok {
			if s, ok := c.V.(string); ok {
				if rej := validate.UniqueName(e.store, rec.Kind, name, s, store.ParentWire(rec), rec.ID); rej != nil {
					return nil, rej
				}
			}
		}
	}

	// Date pair ordering runs against a trial copy so a rejection leaves
	// the record untouched.
	switch foldField(name) {
	case "effectivestartdate", "effectiveenddate":
		trial := rec.Fields.Clone()
		trial.Set(name, checked)
		if rej := checkDateOrder(name, trial); rej != nil {
			return nil, rej
		}
	}

	rec.SetField(name, checked)
	rec.UpdatedTurn = e.turn

	// A changed trigger value (ChargeType, Taxable, ...) can widen the
	// required set; newly required absent fields become placeholders so the
	// record never silently misses one.
	e.requiredSweep(rec)

	slog.Info("payload updated", "id", rec.ID, "field", name)
	return rec, nil
}

// canonicalFieldName maps a caller-spelled field path to the spelling the
// record or schema uses.
func (e *Engine) canonicalFieldName(rec *catalog.Record, name string) string {
	if canonical, ok := rec.Fields.CanonicalName(name); ok {
		return canonical
	}
	if def, err := e.schemas.Definition(rec.Kind); err == nil {
		for _, known := range def.Known {
			if foldField(known) == foldField(name) {
				return known
			}
		}
	}
	return name
}

func locatorString(loc store.Locator) string {
	switch {
	case loc.ID != "":
		return "id " + loc.ID
	case loc.Index != nil:
		return fmt.Sprintf("%s at position %d", loc.Kind.RefName(), *loc.Index)
	case loc.Name != "":
		return fmt.Sprintf("%s named %q", loc.Kind.RefName(), loc.Name)
	}
	return "empty locator"
}
