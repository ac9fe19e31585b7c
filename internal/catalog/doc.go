// Package catalog provides the foundational types for pending billing
// payloads: entity kinds, the sealed field Value interface, forward-reference
// tokens, placeholder sentinels, ordered field maps, and the Record type.
//
// This package contains type definitions and pure conversions only. All other
// internal packages import catalog; catalog imports nothing internal. This
// keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Field values are typed internally (Concrete | Placeholder | ForwardRef)
//     and converted to/from their textual sentinel forms only at the
//     serialization boundary.
//   - Numbers cross the wire as json.Number, never float64, so values
//     round-trip byte-identically.
//   - Field lookup is case- and underscore-insensitive; insertion order and
//     the first-seen spelling of each field name are preserved.
package catalog
