package catalog

import (
	"encoding/json"
	"reflect"
)

// Value is a sealed interface representing a single field value.
// Only Concrete, PlaceholderValue, and RefValue implement it.
//
// Values are typed internally; the textual sentinel forms
// ("<<PLACEHOLDER:...>>" and "@{...}") exist only on the wire.
type Value interface {
	fieldValue() // Sealed - only these types implement it
}

// Concrete is a real field value as decoded from JSON: string, json.Number,
// bool, []any, or map[string]any.
type Concrete struct {
	V any
}

func (Concrete) fieldValue() {}

// PlaceholderValue is a sentinel standing in for a still-unknown field value.
// Field is the field name the sentinel embeds; Reason optionally explains why
// the value is required (e.g. "required because ChargeType=Usage").
type PlaceholderValue struct {
	Field  string
	Reason string
}

func (PlaceholderValue) fieldValue() {}

// RefValue is a forward reference to a not-yet-created entity in the same
// batch, identified by kind and zero-based positional index.
//
// Index -1 means "most recently appended record of Kind" and exists only
// transiently on input; stored records always carry an explicit index.
type RefValue struct {
	Kind  EntityKind
	Index int
}

func (RefValue) fieldValue() {}

// NewConcrete wraps a raw JSON-decoded value as a Concrete.
func NewConcrete(v any) Concrete { return Concrete{V: v} }

// String wraps a string as a Concrete value.
func String(s string) Concrete { return Concrete{V: s} }

// Number wraps a numeric literal as a Concrete value without float drift.
func Number(n string) Concrete { return Concrete{V: json.Number(n)} }

// WireValue converts a Value to its wire representation: the raw value for
// Concrete, the sentinel string for placeholders, the token string for
// forward references.
func WireValue(v Value) any {
	switch val := v.(type) {
	case Concrete:
		return val.V
	case PlaceholderValue:
		return MintSentinel(val.Field, val.Reason)
	case RefValue:
		return MintToken(val.Kind, val.Index)
	}
	return nil
}

// ValueFromWire converts a raw wire value back to a typed Value, recognizing
// placeholder sentinels and forward-reference tokens inside strings.
func ValueFromWire(raw any) Value {
	if s, ok := raw.(string); ok {
		if field, reason, ok := ParseSentinel(s); ok {
			return PlaceholderValue{Field: field, Reason: reason}
		}
		if ref, ok := ParseToken(s); ok {
			return ref
		}
	}
	return Concrete{V: raw}
}

// ValueEqual reports whether two values have identical wire representations.
// Used for idempotence checks on updates.
func ValueEqual(a, b Value) bool {
	return reflect.DeepEqual(WireValue(a), WireValue(b))
}
