package engine

import (
	"errors"
	"fmt"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/schema"
	"github.com/draftbill/draftbill/internal/validate"
)

// resolveParentValue maps a supplied parent-field value to the value to
// store. Unindexed references and omitted values resolve to the most
// recently appended record of the parent kind. The returned error is a
// *EngineError for structural faults or a *validate.Rejection for a
// malformed concrete identifier; construction downgrades either to a
// placeholder, updates return it to the caller.
func (e *Engine) resolveParentValue(kind catalog.EntityKind, field string, v catalog.Value, supplied bool) (catalog.Value, error) {
	parentKind, _, ok := kind.Parent()
	if !ok {
		return v, nil
	}

	if !supplied {
		if latest, ok := e.store.Latest(parentKind); ok {
			return catalog.RefValue{Kind: parentKind, Index: latest.PositionalIndex}, nil
		}
		return nil, NewReferenceError(kind, field,
			fmt.Sprintf("no %s exists in the batch to reference", parentKind.RefName()))
	}

	switch val := v.(type) {
	case catalog.PlaceholderValue:
		return v, nil

	case catalog.RefValue:
		if val.Kind != parentKind {
			return nil, NewReferenceError(kind, field,
				fmt.Sprintf("a %s must reference a %s, not a %s",
					schema.FriendlyKind(string(kind)), parentKind.RefName(), val.Kind.RefName()))
		}
		if val.Index < 0 {
			latest, ok := e.store.Latest(parentKind)
			if !ok {
				return nil, NewReferenceError(kind, field,
					fmt.Sprintf("no %s exists in the batch to resolve %s",
						parentKind.RefName(), catalog.MintToken(parentKind, -1)))
			}
			return catalog.RefValue{Kind: parentKind, Index: latest.PositionalIndex}, nil
		}
		if !e.store.HasIndex(parentKind, val.Index) {
			return nil, NewReferenceError(kind, field,
				fmt.Sprintf("no %s exists at position %d", parentKind.RefName(), val.Index))
		}
		return val, nil

	case catalog.Concrete:
		s, ok := val.V.(string)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: "parent identifier must be a string id or an object reference",
			}
		}
		if rej := validate.Identifier(field, s); rej != nil {
			return nil, rej
		}
		return val, nil
	}
	return v, nil
}

// reasonOf extracts the human-readable message from a rejection or engine
// error, for embedding in a placeholder sentinel.
func reasonOf(err error) string {
	if rej, ok := validate.AsRejection(err); ok {
		return rej.Message
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return err.Error()
}
