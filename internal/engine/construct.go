package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/inference"
	"github.com/draftbill/draftbill/internal/schema"
	"github.com/draftbill/draftbill/internal/store"
	"github.com/draftbill/draftbill/internal/validate"
)

// Outstanding names a field that remains a placeholder after construction,
// with the reason it could not be resolved (empty when the field was simply
// not supplied).
type Outstanding struct {
	Field  string
	Reason string
}

// ConstructPayload builds a new payload record from partial field data and
// appends it to the batch. It never blocks on missing data and never fails
// on a bad field value: rejected or unresolvable fields become placeholders
// whose reason carries the rejection, and the returned outstanding list
// names everything still unresolved. The only error is an unknown kind.
func (e *Engine) ConstructPayload(kind catalog.EntityKind, fieldData map[string]any) (*catalog.Record, []Outstanding, error) {
	if !kind.Valid() {
		return nil, nil, NewSchemaError(kind)
	}
	def, err := e.schemas.Definition(kind)
	if err != nil {
		return nil, nil, NewSchemaError(kind)
	}

	r := catalog.NewRecord(e.ids.Generate(), kind)
	r.CreatedTurn, r.UpdatedTurn = e.turn, e.turn

	_, parentField, hasParent := kind.Parent()

	// Index supplied fields by folded name so input spelling never matters.
	type supplied struct {
		name  string
		value any
	}
	// Sorted intake keeps construction deterministic when two supplied
	// spellings fold to the same field: the first in sorted order wins.
	keys := make([]string, 0, len(fieldData))
	for name := range fieldData {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	byFold := make(map[string]supplied, len(fieldData))
	for _, name := range keys {
		fold := foldField(name)
		if prior, ok := byFold[fold]; ok {
			slog.Warn("conflicting field spelling dropped",
				"kind", string(kind), "kept", prior.name, "dropped", name)
			continue
		}
		byFold[fold] = supplied{name: name, value: fieldData[name]}
	}

	// Schema-known fields first, in schema order, validated one by one.
	// The parent reference is deferred: it needs the batch for resolution.
	var parentValue catalog.Value
	parentSupplied := false
	consumed := make(map[string]struct{})
	for _, name := range def.Known {
		sf, ok := byFold[foldField(name)]
		if !ok {
			continue
		}
		consumed[foldField(name)] = struct{}{}

		v := catalog.ValueFromWire(sf.value)
		if hasParent && foldField(name) == foldField(parentField) {
			parentValue, parentSupplied = v, true
			continue
		}
		checked, rej := e.checkField(kind, name, v)
		if rej != nil {
			r.SetField(name, catalog.PlaceholderValue{Field: name, Reason: rej.Message})
			slog.Warn("field rejected during construction",
				"kind", string(kind), "field", name, "code", string(rej.Code))
			continue
		}
		r.SetField(name, checked)
	}

	// Everything else passes through as extensions, untouched and
	// unvalidated, in a stable order.
	var extras []string
	for fold, sf := range byFold {
		if _, ok := consumed[fold]; !ok {
			extras = append(extras, sf.name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		r.SetExtension(name, catalog.ValueFromWire(byFold[foldField(name)].value))
	}

	if hasParent {
		resolved, err := e.resolveParentValue(kind, parentField, parentValue, parentSupplied)
		if err != nil {
			r.SetField(parentField, catalog.PlaceholderValue{Field: parentField, Reason: reasonOf(err)})
			slog.Warn("parent reference unresolved",
				"kind", string(kind), "field", parentField, "reason", reasonOf(err))
		} else {
			r.SetField(parentField, resolved)
		}
	}

	// Name uniqueness runs after parent resolution: sibling scope depends
	// on the parent reference. A colliding name never enters the batch.
	if nameField := e.schemas.NameField(kind); nameField != "" {
		if name, ok := concreteString(r.Fields, nameField); ok {
			if rej := validate.UniqueName(e.store, kind, nameField, name, store.ParentWire(r), ""); rej != nil {
				r.SetField(nameField, catalog.PlaceholderValue{Field: nameField, Reason: rej.Message})
				slog.Warn("duplicate name rejected",
					"kind", string(kind), "name", name)
			}
		}
	}

	// Charge model inference fills the gap only when no model was supplied.
	if (kind == catalog.Charge || kind == catalog.ChargeUpdate) && !r.Fields.Has("ChargeModel") {
		res := inference.Infer(signalsFrom(r.Fields))
		if res.Known() {
			r.SetField("ChargeModel", catalog.String(res.Model))
			slog.Debug("charge model inferred",
				"model", res.Model, "rule", string(res.Rule), "justification", res.Justification)
		} else {
			r.SetField("ChargeModel",
				catalog.PlaceholderValue{Field: "ChargeModel", Reason: res.Justification})
		}
	}

	e.applyDefaults(r)

	// Cross-field date ordering runs after defaulting so a defaulted start
	// date is checked too. A bad end date downgrades, the start stays.
	if rej := checkDateOrder("EffectiveEndDate", r.Fields); rej != nil {
		r.SetField("EffectiveEndDate",
			catalog.PlaceholderValue{Field: "EffectiveEndDate", Reason: rej.Message})
	}

	e.requiredSweep(r)

	e.store.Append(r)
	slog.Info("payload constructed",
		"kind", string(kind), "id", r.ID, "index", r.PositionalIndex,
		"placeholders", len(r.Placeholders))
	return r, outstandingOf(r), nil
}

// applyDefaults fills fields that have a default rule, so they never reach
// the placeholder sweep.
func (e *Engine) applyDefaults(r *catalog.Record) {
	required, err := e.schemas.RequiredFields(r.Kind)
	if err != nil {
		return
	}
	requires := func(name string) bool {
		for _, req := range required {
			if foldField(req) == foldField(name) {
				return true
			}
		}
		return false
	}

	if requires("EffectiveStartDate") && !r.Fields.Has("EffectiveStartDate") {
		r.SetField("EffectiveStartDate", catalog.String(e.now().Format(validate.DateLayout)))
	}
	if requires("EffectiveEndDate") && !r.Fields.Has("EffectiveEndDate") {
		if start, ok := concreteString(r.Fields, "EffectiveStartDate"); ok {
			if t, err := time.Parse(validate.DateLayout, start); err == nil {
				r.SetField("EffectiveEndDate",
					catalog.String(t.AddDate(10, 0, 0).Format(validate.DateLayout)))
			}
		}
	}

	if r.Kind == catalog.Charge || r.Kind == catalog.ChargeUpdate {
		if !r.Fields.Has("BillCycleType") {
			r.SetField("BillCycleType", catalog.String("DefaultFromCustomer"))
		}
		if !r.Fields.Has("TriggerEvent") {
			r.SetField("TriggerEvent", catalog.String("ContractEffective"))
		}
		if !r.Fields.Has("Currency") {
			r.SetField("Currency", catalog.String(e.schemas.DefaultCurrency()))
		}
		if ct, ok := concreteString(r.Fields, "ChargeType"); ok && ct == "Recurring" && !r.Fields.Has("BillingTiming") {
			r.SetField("BillingTiming", catalog.String("In Advance"))
		}
	}
}

// requiredSweep placeholders every required field (unconditional plus
// triggered conditionals) still absent from the record, then clears stale
// conditional placeholders whose trigger no longer matches. After the sweep,
// required fields are always present as values, references, or explicit
// placeholders, never missing, and no placeholder lingers for a requirement
// that stopped applying.
func (e *Engine) requiredSweep(r *catalog.Record) {
	reqs, err := e.schemas.RequiredFor(r.Kind, r.Fields)
	if err != nil {
		return
	}
	required := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		required[foldField(req.Name)] = struct{}{}
		if r.Fields.Has(req.Name) {
			continue
		}
		r.SetField(req.Name, catalog.PlaceholderValue{Field: req.Name, Reason: req.Reason})
	}

	// Narrowing: a placeholder this sweep once minted for a conditional
	// trigger (recognizable by its rule reason) leaves the record when the
	// trigger stops matching, so e.g. a Usage charge flipped to OneTime
	// does not stay blocked on UOM. Placeholders holding a rejection reason
	// or user intent are never dropped.
	def, err := e.schemas.Definition(r.Kind)
	if err != nil {
		return
	}
	for _, name := range r.PlaceholderFields() {
		if _, still := required[foldField(name)]; still {
			continue
		}
		v, _ := r.Fields.Get(name)
		p, ok := v.(catalog.PlaceholderValue)
		if !ok || !conditionalReason(def, name, p.Reason) {
			continue
		}
		r.DeleteField(name)
	}
}

// conditionalReason reports whether reason is the rule text of a conditional
// requirement covering field.
func conditionalReason(def *schema.Definition, field, reason string) bool {
	for _, cond := range def.Conditional {
		if cond.Reason != reason {
			continue
		}
		for _, name := range cond.Require {
			if foldField(name) == foldField(field) {
				return true
			}
		}
	}
	return false
}

// signalsFrom extracts the pricing facts inference runs on.
func signalsFrom(fields *catalog.FieldMap) inference.Signals {
	sig := inference.Signals{TierCount: tierCount(fields)}
	sig.ChargeType, _ = concreteString(fields, "ChargeType")
	_, sig.HasUOM = concreteString(fields, "UOM")
	sig.HasFlatPrice = hasConcrete(fields, "Price")
	sig.HasIncludedUnits = hasConcrete(fields, "IncludedUnits")
	sig.HasOveragePrice = hasConcrete(fields, "OveragePrice")
	return sig
}

// tierCount counts supplied pricing tiers. The tier container arrives
// either as a bare list or as the API's wrapped form:
// {"ProductRatePlanChargeTier": [...]}.
func tierCount(fields *catalog.FieldMap) int {
	v, ok := fields.Get("ProductRatePlanChargeTierData")
	if !ok {
		return 0
	}
	c, ok := v.(catalog.Concrete)
	if !ok {
		return 0
	}
	switch t := c.V.(type) {
	case []any:
		return len(t)
	case map[string]any:
		for key, inner := range t {
			if foldField(key) != "productrateplanchargetier" {
				continue
			}
			if list, ok := inner.([]any); ok {
				return len(list)
			}
		}
	}
	return 0
}

func hasConcrete(fields *catalog.FieldMap, name string) bool {
	v, ok := fields.Get(name)
	if !ok {
		return false
	}
	_, ok = v.(catalog.Concrete)
	return ok
}

// outstandingOf lists the record's placeholders with their reasons, in
// field order.
func outstandingOf(r *catalog.Record) []Outstanding {
	var out []Outstanding
	for _, name := range r.PlaceholderFields() {
		v, _ := r.Fields.Get(name)
		p, _ := v.(catalog.PlaceholderValue)
		out = append(out, Outstanding{Field: name, Reason: p.Reason})
	}
	return out
}
