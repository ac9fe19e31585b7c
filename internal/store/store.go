// Package store holds the mutable, ordered collection of pending payload
// records for one conversation, plus its SQLite persistence across turns.
//
// The store is exclusively owned by one session at a time: the session
// manager isolates stores per conversation and serializes turns, so all
// operations here are synchronous and unlocked.
package store

import (
	"strings"

	"github.com/draftbill/draftbill/internal/catalog"
)

// Store is the ordered batch of pending payloads. Insertion order is
// preserved and is the only defined order.
type Store struct {
	records []*catalog.Record
	byID    map[string]*catalog.Record

	// nextIndex tracks the next positional index per kind. Monotonic:
	// removal never frees an index for reuse, so indices stay stable
	// identities rather than dense ranks.
	nextIndex map[catalog.EntityKind]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:      make(map[string]*catalog.Record),
		nextIndex: make(map[catalog.EntityKind]int),
	}
}

// Append assigns the record its kind-scoped positional index and inserts it.
// Never fails: records with outstanding placeholders are as welcome as
// complete ones.
func (s *Store) Append(r *catalog.Record) {
	r.PositionalIndex = s.nextIndex[r.Kind]
	s.nextIndex[r.Kind] = r.PositionalIndex + 1
	s.records = append(s.records, r)
	s.byID[r.ID] = r
}

// restore re-inserts a deserialized record keeping its persisted positional
// index, and advances the index counter past it.
func (s *Store) restore(r *catalog.Record) {
	if r.PositionalIndex >= s.nextIndex[r.Kind] {
		s.nextIndex[r.Kind] = r.PositionalIndex + 1
	}
	s.records = append(s.records, r)
	s.byID[r.ID] = r
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*catalog.Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// ByIndex returns the live record of a kind at a positional index.
func (s *Store) ByIndex(kind catalog.EntityKind, index int) (*catalog.Record, bool) {
	for _, r := range s.records {
		if r.Kind == kind && r.PositionalIndex == index {
			return r, true
		}
	}
	return nil, false
}

// HasIndex reports whether a live record of kind exists at index.
func (s *Store) HasIndex(kind catalog.EntityKind, index int) bool {
	_, ok := s.ByIndex(kind, index)
	return ok
}

// Latest returns the most recently appended live record of a kind.
func (s *Store) Latest(kind catalog.EntityKind) (*catalog.Record, bool) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Kind == kind {
			return s.records[i], true
		}
	}
	return nil, false
}

// List returns all records in append order, optionally filtered by kind
// (empty kind means no filter). The slice is a copy; records are shared.
func (s *Store) List(kind catalog.EntityKind) []*catalog.Record {
	var out []*catalog.Record
	for _, r := range s.records {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of live records.
func (s *Store) Len() int { return len(s.records) }

// Remove deletes a record by id. Used by the external rollback collaborator
// after a failed remote execution. Remaining positional indices are not
// renumbered; gaps are expected.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return true
}

// NameTaken implements validate.Snapshot: it reports whether a live record
// other than excludeID, of the given kind and parent reference, already
// carries the name. Rate plans and charges are scoped to their parent
// reference; products compare batch-wide.
func (s *Store) NameTaken(kind catalog.EntityKind, name, parentWire, excludeID string) bool {
	for _, r := range s.records {
		if r.Kind != kind || r.ID == excludeID {
			continue
		}
		v, ok := r.Fields.Get("Name")
		if !ok {
			continue
		}
		existing, ok := v.(catalog.Concrete)
		if !ok {
			continue
		}
		existingName, ok := existing.V.(string)
		if !ok || !strings.EqualFold(existingName, name) {
			continue
		}
		if ParentWire(r) != parentWire {
			continue
		}
		return true
	}
	return false
}

// ParentWire returns the wire form of a record's parent-reference field
// value, or "" when absent or parentless.
func ParentWire(r *catalog.Record) string {
	_, field, ok := r.Kind.Parent()
	if !ok {
		return ""
	}
	v, ok := r.Fields.Get(field)
	if !ok {
		return ""
	}
	if s, ok := catalog.WireValue(v).(string); ok {
		return s
	}
	return ""
}
