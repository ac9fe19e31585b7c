// Package engine orchestrates payload construction and mutation: it splits
// incoming field data against the schema registry, runs the field
// validators, infers charge models from pricing signals, applies default
// rules, resolves parent references to forward-reference tokens, and
// placeholders whatever remains unresolved.
//
// The engine is synchronous and single-writer: one conversation owns one
// engine (and its store) at a time, the session layer serializes turns, and
// no operation blocks or performs I/O. Construction never fails on missing
// or rejected data; it always appends a record, downgrading bad fields to
// placeholders. Updates either apply cleanly or return a field-scoped
// rejection with the record untouched. Only locator misses, unknown entity
// kinds, and structural reference faults surface as errors.
package engine
