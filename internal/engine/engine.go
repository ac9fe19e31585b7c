package engine

import (
	"bytes"
	"strings"
	"time"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/schema"
	"github.com/draftbill/draftbill/internal/store"
)

// Engine is the payload construction and validation engine for one
// conversation's batch.
//
// All mutations go through ConstructPayload / UpdatePayload on the calling
// goroutine; the engine performs no internal locking and assumes at most
// one writer per store instance.
type Engine struct {
	store   *store.Store
	schemas *schema.Registry
	ids     IDGenerator
	now     func() time.Time
	turn    int
}

// Option configures engine parameters.
type Option func(*Engine)

// WithIDGenerator substitutes the record id generator.
// Use NewFixedGenerator in tests for predictable ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithClock substitutes the wall clock used by date defaults.
// Use a fixed clock in tests so "today" is stable.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTurn starts the engine at a specific turn number, for sessions
// restored from persistence.
func WithTurn(turn int) Option {
	return func(e *Engine) {
		if turn > 0 {
			e.turn = turn
		}
	}
}

// New creates an engine over the given store and schema registry.
func New(s *store.Store, schemas *schema.Registry, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		schemas: schemas,
		ids:     UUIDv7Generator{},
		now:     time.Now,
		turn:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BeginTurn advances the conversational turn counter and returns the new
// turn number. Turn numbers stamp records for diagnostics only; nothing
// authoritative depends on them.
func (e *Engine) BeginTurn() int {
	e.turn++
	return e.turn
}

// Turn returns the current turn number.
func (e *Engine) Turn() int { return e.turn }

// Store exposes the underlying payload store for the session layer.
func (e *Engine) Store() *store.Store { return e.store }

// ListPayloads returns the batch in append order, optionally filtered by
// kind. An empty kind means no filter; a non-empty unknown kind is caller
// misuse.
func (e *Engine) ListPayloads(kind catalog.EntityKind) ([]*catalog.Record, error) {
	if kind != "" && !kind.Valid() {
		return nil, NewSchemaError(kind)
	}
	return e.store.List(kind), nil
}

// Remove deletes a record from the batch by id. This is the rollback hook
// for the external executor; remaining positional indices keep their gaps.
func (e *Engine) Remove(id string) error {
	if !e.store.Remove(id) {
		return NewNotFoundError("", "id "+id)
	}
	return nil
}

// Export serializes the batch in append order as a JSON array of wire
// records, with forward-reference tokens left unresolved. Dependency
// ordering is the executor's concern; append order is the only order
// this engine defines.
func (e *Engine) Export() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range e.store.List("") {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
		wire, err := r.MarshalWire()
		if err != nil {
			return nil, err
		}
		buf.Write(wire)
	}
	if e.store.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// foldField normalizes a field name for routing: lowercase, underscores
// stripped. Matches the field map's key folding.
func foldField(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}
