package validate

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/draftbill/draftbill/internal/catalog"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	skuPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	idPattern   = regexp.MustCompile(`^[a-zA-Z0-9]{10,}$`)
)

// Snapshot is the read-only view of the batch that uniqueness checks run
// against. The payload store implements it.
type Snapshot interface {
	// NameTaken reports whether a live record other than excludeID, of the
	// same kind and with the same parent reference (wire form, empty for
	// parentless kinds), already carries the given name. Comparison is
	// case-insensitive.
	NameTaken(kind catalog.EntityKind, name string, parentWire string, excludeID string) bool
}

// Date checks that a value is a calendar date in YYYY-MM-DD form.
func Date(field, value string) *Rejection {
	if !datePattern.MatchString(value) {
		return reject(CodeFormat, field, "invalid date format %q, use YYYY-MM-DD (e.g., 2024-01-01)", value)
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return reject(CodeFormat, field, "invalid date %q: not a calendar date", value)
	}
	return nil
}

// DateRange checks that end is strictly after start. Both values must
// already be valid dates.
func DateRange(field, start, end string) *Rejection {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return reject(CodeFormat, field, "invalid start date %q", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return reject(CodeFormat, field, "invalid end date %q", end)
	}
	if !e.After(s) {
		return reject(CodeRange, field, "end date %s must be after start date %s", end, start)
	}
	return nil
}

// Identifier accepts a concrete identifier (10+ alphanumeric characters) or
// a forward-reference token.
func Identifier(field, value string) *Rejection {
	if catalog.IsToken(value) {
		return nil
	}
	if idPattern.MatchString(value) {
		return nil
	}
	return reject(CodeFormat, field,
		"invalid identifier %q: provide a billing API ID (e.g., '8a1234567890abcd') or an object reference (e.g., '@{Product[0].Id}')", value)
}

// NameLength checks a name against its schema length bound (0 = unbounded).
func NameLength(field, value string, maxLen int) *Rejection {
	if value == "" {
		return reject(CodeFormat, field, "name must not be empty")
	}
	if maxLen > 0 && len(value) > maxLen {
		return reject(CodeRange, field, "name exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// UniqueName checks a name for collisions in the current batch: no two live
// records of the same kind (and same parent reference, where applicable) may
// share a name. Sibling entities in an unexecuted batch must not collide any
// more than remote ones.
func UniqueName(snap Snapshot, kind catalog.EntityKind, field, value, parentWire, excludeID string) *Rejection {
	if snap == nil {
		return nil
	}
	if snap.NameTaken(kind, value, parentWire, excludeID) {
		return reject(CodeDuplicate, field, "a %s named %q already exists in this batch", kind.RefName(), value)
	}
	return nil
}

// SKU checks the SKU character set (alphanumeric, hyphens, underscores) and
// length bound.
func SKU(field, value string, maxLen int) *Rejection {
	if !skuPattern.MatchString(value) {
		return reject(CodeFormat, field, "invalid SKU format: use only alphanumeric characters, hyphens, and underscores")
	}
	if maxLen > 0 && len(value) > maxLen {
		return reject(CodeRange, field, "SKU exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// Price checks that a value is a non-negative decimal amount. Accepts
// string and json.Number representations; money never travels as float64.
func Price(field string, value any) *Rejection {
	var lit string
	switch v := value.(type) {
	case string:
		lit = v
	case json.Number:
		lit = v.String()
	default:
		return reject(CodeFormat, field, "price must be a decimal number")
	}
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return reject(CodeFormat, field, "invalid price %q: not a decimal number", lit)
	}
	if d.IsNegative() {
		return reject(CodeRange, field, "price must not be negative")
	}
	return nil
}

// OneOf checks membership in a closed value set, case-insensitively, and
// returns the canonical spelling on acceptance.
func OneOf(field, value string, allowed []string) (string, *Rejection) {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, nil
		}
	}
	return "", reject(CodeFormat, field, "invalid value %q: must be one of %s", value, strings.Join(allowed, ", "))
}
