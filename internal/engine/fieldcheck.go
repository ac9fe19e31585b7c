package engine

import (
	"encoding/json"
	"fmt"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/validate"
)

// checkField runs the validators appropriate to one supplied schema field
// and returns the value to store, canonicalized where a closed value set
// defines a canonical spelling. Uniqueness and parent references are
// checked separately because they need batch context.
func (e *Engine) checkField(kind catalog.EntityKind, field string, v catalog.Value) (catalog.Value, *validate.Rejection) {
	switch val := v.(type) {
	case catalog.PlaceholderValue:
		// An explicit placeholder is always storable.
		return v, nil
	case catalog.RefValue:
		if _, parentField, ok := kind.Parent(); ok && foldField(field) == foldField(parentField) {
			return v, nil
		}
		return nil, &validate.Rejection{
			Code:    validate.CodeFormat,
			Field:   field,
			Message: fmt.Sprintf("object references are only valid for parent identifier fields, not %s", field),
		}
	case catalog.Concrete:
		return e.checkConcrete(kind, field, val)
	}
	return v, nil
}

func (e *Engine) checkConcrete(kind catalog.EntityKind, field string, val catalog.Concrete) (catalog.Value, *validate.Rejection) {
	fold := foldField(field)

	switch fold {
	case "effectivestartdate", "effectiveenddate", "triggerdate", "specificenddate":
		s, ok := val.V.(string)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: "date must be a string in YYYY-MM-DD format",
			}
		}
		if rej := validate.Date(field, s); rej != nil {
			return nil, rej
		}
		return val, nil

	case "sku":
		s, ok := val.V.(string)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: "SKU must be a string",
			}
		}
		if rej := validate.SKU(field, s, e.schemas.MaxLength(kind, field)); rej != nil {
			return nil, rej
		}
		return val, nil

	case "price", "overageprice", "discountamount", "discountpercentage":
		if rej := validate.Price(field, val.V); rej != nil {
			return nil, rej
		}
		return val, nil
	}

	if fold == foldField(e.schemas.NameField(kind)) {
		s, ok := val.V.(string)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: "name must be a string",
			}
		}
		if rej := validate.NameLength(field, s, e.schemas.MaxLength(kind, field)); rej != nil {
			return nil, rej
		}
		return val, nil
	}

	// Closed value sets: accept case-insensitively, store canonically.
	if allowed := e.schemas.AllowedValues(kind, field); len(allowed) > 0 {
		s, ok := scalarLiteral(val.V)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: fmt.Sprintf("value must be one of the allowed %s options", field),
			}
		}
		canonical, rej := validate.OneOf(field, s, allowed)
		if rej != nil {
			return nil, rej
		}
		return catalog.String(canonical), nil
	}

	if fold == "uom" {
		s, ok := val.V.(string)
		if !ok {
			return nil, &validate.Rejection{
				Code:    validate.CodeFormat,
				Field:   field,
				Message: "unit of measure must be a string",
			}
		}
		if maxLen := e.schemas.MaxLength(kind, field); maxLen > 0 && len(s) > maxLen {
			return nil, &validate.Rejection{
				Code:    validate.CodeRange,
				Field:   field,
				Message: fmt.Sprintf("unit of measure exceeds maximum length of %d characters", maxLen),
			}
		}
		return val, nil
	}

	return val, nil
}

// checkDateOrder cross-checks the effective date pair when both are
// concrete. Attribution goes to the field being set.
func checkDateOrder(field string, fields *catalog.FieldMap) *validate.Rejection {
	start, ok1 := concreteString(fields, "EffectiveStartDate")
	end, ok2 := concreteString(fields, "EffectiveEndDate")
	if !ok1 || !ok2 {
		return nil
	}
	if rej := validate.DateRange(field, start, end); rej != nil {
		return rej
	}
	return nil
}

// concreteString fetches a field's concrete string value, if it holds one.
func concreteString(fields *catalog.FieldMap, name string) (string, bool) {
	v, ok := fields.Get(name)
	if !ok {
		return "", false
	}
	c, ok := v.(catalog.Concrete)
	if !ok {
		return "", false
	}
	s, ok := c.V.(string)
	return s, ok
}

// scalarLiteral renders a scalar as its literal string for set membership.
func scalarLiteral(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
