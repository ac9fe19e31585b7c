package catalog

import "strings"

// FieldMap is an ordered mapping from field name to Value with case- and
// underscore-insensitive lookup: "EffectiveStartDate" resolves the same
// entry as "effective_start_date". Insertion order and the first-seen
// spelling of each name are preserved for serialization.
type FieldMap struct {
	names  []string         // canonical spellings in insertion order
	values map[string]Value // keyed by folded name
	canon  map[string]string
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{
		values: make(map[string]Value),
		canon:  make(map[string]string),
	}
}

// foldKey normalizes a field name for lookup: lowercase with underscores
// removed, matching the flexible casing accepted at the tool boundary.
func foldKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}

// Set stores a value under name. If an entry already exists under any
// spelling of name, its canonical spelling and position are kept.
func (m *FieldMap) Set(name string, v Value) {
	key := foldKey(name)
	if _, ok := m.values[key]; !ok {
		m.names = append(m.names, name)
		m.canon[key] = name
	}
	m.values[key] = v
}

// Get returns the value stored under any spelling of name.
func (m *FieldMap) Get(name string) (Value, bool) {
	v, ok := m.values[foldKey(name)]
	return v, ok
}

// Has reports whether any spelling of name is present.
func (m *FieldMap) Has(name string) bool {
	_, ok := m.values[foldKey(name)]
	return ok
}

// CanonicalName returns the stored spelling for any spelling of name.
func (m *FieldMap) CanonicalName(name string) (string, bool) {
	c, ok := m.canon[foldKey(name)]
	return c, ok
}

// Names returns the canonical field names in insertion order.
// The returned slice is a copy.
func (m *FieldMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Delete removes the entry stored under any spelling of name. The order of
// the remaining entries is preserved.
func (m *FieldMap) Delete(name string) {
	key := foldKey(name)
	canonical, ok := m.canon[key]
	if !ok {
		return
	}
	delete(m.values, key)
	delete(m.canon, key)
	for i, n := range m.names {
		if n == canonical {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *FieldMap) Len() int { return len(m.names) }

// Clone returns a deep copy of the map structure. Values themselves are
// immutable once stored, so they are shared.
func (m *FieldMap) Clone() *FieldMap {
	out := NewFieldMap()
	for _, name := range m.names {
		out.Set(name, m.values[foldKey(name)])
	}
	return out
}
