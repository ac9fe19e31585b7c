package catalog

// Record is a pending payload: one not-yet-executed billing API request body
// under construction.
//
// INVARIANTS:
//   - Every name in Placeholders maps to a PlaceholderValue in Fields, and
//     every PlaceholderValue in Fields has its name in Placeholders. SetField
//     is the only mutation path and maintains this mechanically.
//   - PositionalIndex is assigned once at append time and never changes; no
//     two live records of the same kind share an index.
type Record struct {
	// ID is an opaque identifier assigned at creation. It is stable for the
	// life of the record and is not the eventual remote identifier.
	ID string

	// Kind selects the schema and validators that apply.
	Kind EntityKind

	// Fields holds the schema-known fields: concrete values,
	// forward-reference tokens, or placeholder sentinels.
	Fields *FieldMap

	// Extensions is the passthrough bag for fields outside the schema.
	// Extension fields are never defaulted, validated, or placeholdered.
	Extensions *FieldMap

	// Placeholders is the set of field names currently holding a placeholder
	// sentinel, keyed by canonical spelling. Empty means execution-ready.
	Placeholders map[string]struct{}

	// PositionalIndex is the record's 0-based position among records of the
	// same kind, used to build forward-reference tokens.
	PositionalIndex int

	// CreatedTurn and UpdatedTurn record conversational provenance.
	// Diagnostic only, never authoritative.
	CreatedTurn int
	UpdatedTurn int
}

// NewRecord returns an empty record of the given kind.
func NewRecord(id string, kind EntityKind) *Record {
	return &Record{
		ID:           id,
		Kind:         kind,
		Fields:       NewFieldMap(),
		Extensions:   NewFieldMap(),
		Placeholders: make(map[string]struct{}),
	}
}

// SetField stores a schema-known field value and keeps the placeholder set
// consistent: placeholder values enter the set, anything else leaves it.
func (r *Record) SetField(name string, v Value) {
	r.Fields.Set(name, v)
	canonical, _ := r.Fields.CanonicalName(name)
	if _, ok := v.(PlaceholderValue); ok {
		r.Placeholders[canonical] = struct{}{}
	} else {
		delete(r.Placeholders, canonical)
	}
}

// DeleteField removes a schema-known field and its placeholder entry.
func (r *Record) DeleteField(name string) {
	canonical, ok := r.Fields.CanonicalName(name)
	if !ok {
		return
	}
	r.Fields.Delete(canonical)
	delete(r.Placeholders, canonical)
}

// SetExtension stores a passthrough field value.
func (r *Record) SetExtension(name string, v Value) {
	r.Extensions.Set(name, v)
}

// PlaceholderFields returns the outstanding placeholder field names in field
// insertion order.
func (r *Record) PlaceholderFields() []string {
	var out []string
	for _, name := range r.Fields.Names() {
		if _, ok := r.Placeholders[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// ExecutionReady reports whether the record has no outstanding placeholders.
func (r *Record) ExecutionReady() bool {
	return len(r.Placeholders) == 0
}

// ParentRef returns the record's forward reference to its parent, if the
// parent field currently holds one.
func (r *Record) ParentRef() (RefValue, bool) {
	_, field, ok := r.Kind.Parent()
	if !ok {
		return RefValue{}, false
	}
	v, ok := r.Fields.Get(field)
	if !ok {
		return RefValue{}, false
	}
	ref, ok := v.(RefValue)
	return ref, ok
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{
		ID:              r.ID,
		Kind:            r.Kind,
		Fields:          r.Fields.Clone(),
		Extensions:      r.Extensions.Clone(),
		Placeholders:    make(map[string]struct{}, len(r.Placeholders)),
		PositionalIndex: r.PositionalIndex,
		CreatedTurn:     r.CreatedTurn,
		UpdatedTurn:     r.UpdatedTurn,
	}
	for k := range r.Placeholders {
		out.Placeholders[k] = struct{}{}
	}
	return out
}
