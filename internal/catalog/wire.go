package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Wire format for a pending payload record. This is the flat mapping handed
// to the session persistence layer and, at execution time, to the executor:
//
//	{
//	  "payload_id": "...",
//	  "zuora_api_type": "product",
//	  "payload": { ...field map, sentinels and tokens as plain strings... },
//	  "_placeholders": ["SKU"],
//	  "positional_index": 0,
//	  "created_turn": 1,
//	  "updated_turn": 2
//	}
//
// Payload keys are emitted in field insertion order (schema fields first,
// then extensions) so serialization is deterministic and diffable.

// MarshalWire serializes the record to its wire JSON form.
func (r *Record) MarshalWire() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeKey(&buf, "payload_id")
	if err := writeValue(&buf, r.ID); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	writeKey(&buf, "zuora_api_type")
	if err := writeValue(&buf, string(r.Kind)); err != nil {
		return nil, err
	}

	buf.WriteByte(',')
	writeKey(&buf, "payload")
	if err := r.marshalPayload(&buf); err != nil {
		return nil, err
	}

	if fields := r.PlaceholderFields(); len(fields) > 0 {
		buf.WriteByte(',')
		writeKey(&buf, "_placeholders")
		if err := writeValue(&buf, fields); err != nil {
			return nil, err
		}
	}

	buf.WriteByte(',')
	writeKey(&buf, "positional_index")
	fmt.Fprintf(&buf, "%d", r.PositionalIndex)
	buf.WriteByte(',')
	writeKey(&buf, "created_turn")
	fmt.Fprintf(&buf, "%d", r.CreatedTurn)
	buf.WriteByte(',')
	writeKey(&buf, "updated_turn")
	fmt.Fprintf(&buf, "%d", r.UpdatedTurn)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalPayload writes the merged field map (schema fields, then
// extensions) as a JSON object in insertion order.
func (r *Record) marshalPayload(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	write := func(m *FieldMap) error {
		for _, name := range m.Names() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeKey(buf, name)
			v, _ := m.Get(name)
			if err := writeValue(buf, WireValue(v)); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
		}
		return nil
	}
	if err := write(r.Fields); err != nil {
		return err
	}
	if err := write(r.Extensions); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

// writeKey writes a JSON-escaped object key followed by ':'.
func writeKey(buf *bytes.Buffer, key string) {
	// Keys are plain field names; json.Marshal on a string cannot fail.
	b, _ := json.Marshal(key)
	buf.Write(b)
	buf.WriteByte(':')
}

// writeValue writes a JSON value without HTML escaping, so reason clauses
// containing '<' and '>' round-trip verbatim.
func writeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encoder appends a newline; strip it to keep output compact.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// wireEnvelope mirrors the wire object for decoding. Payload is kept raw so
// key order and numeric fidelity survive.
type wireEnvelope struct {
	ID           string          `json:"payload_id"`
	Kind         string          `json:"zuora_api_type"`
	Payload      json.RawMessage `json:"payload"`
	Placeholders []string        `json:"_placeholders"`
	Index        int             `json:"positional_index"`
	CreatedTurn  int             `json:"created_turn"`
	UpdatedTurn  int             `json:"updated_turn"`
}

// UnmarshalWire parses a wire record. The known predicate decides, per field
// name, whether it belongs to the kind's schema (Fields) or the extension
// bag; the schema registry supplies it at load time.
func UnmarshalWire(data []byte, known func(EntityKind, string) bool) (*Record, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal wire record: %w", err)
	}
	kind, ok := ParseKind(env.Kind)
	if !ok {
		return nil, fmt.Errorf("unmarshal wire record: unknown entity kind %q", env.Kind)
	}

	r := NewRecord(env.ID, kind)
	r.PositionalIndex = env.Index
	r.CreatedTurn = env.CreatedTurn
	r.UpdatedTurn = env.UpdatedTurn

	if len(env.Payload) > 0 {
		names, values, err := decodeOrderedObject(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("unmarshal wire record %s: %w", env.ID, err)
		}
		for i, name := range names {
			v := ValueFromWire(values[i])
			if known == nil || known(kind, name) {
				r.SetField(name, v)
			} else {
				r.SetExtension(name, v)
			}
		}
	}
	return r, nil
}

// decodeOrderedObject decodes a JSON object preserving key order, with
// numbers as json.Number.
func decodeOrderedObject(raw json.RawMessage) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("payload is not a JSON object")
	}

	var names []string
	var values []any
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected payload key token %v", keyTok)
		}
		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", key, err)
		}
		val, err := decodeAny(rawVal)
		if err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", key, err)
		}
		names = append(names, key)
		values = append(values, val)
	}
	return names, values, nil
}

// decodeAny decodes an arbitrary JSON value with numbers as json.Number.
func decodeAny(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
