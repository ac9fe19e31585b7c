package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Forward-reference token format: @{Product[0].Id}
//
// The token stands in for an entity's eventual remote identifier and is
// resolved only by the executor, after the referenced entity is actually
// created. The @{...} delimiter pair never appears in legitimate billing API
// field values, so tokens are unambiguous on the wire.
//
// The index may be omitted on input (@{Product.Id}); that form means "most
// recently appended record of that kind" and is normalized to an explicit
// index before storage.
var tokenPattern = regexp.MustCompile(`^@\{(Product|ProductRatePlan|ProductRatePlanCharge)(?:\[(\d+)\])?\.Id\}$`)

// MintToken builds a forward-reference token for the given kind and
// positional index. An index of -1 produces the unindexed form.
func MintToken(kind EntityKind, index int) string {
	if index < 0 {
		return fmt.Sprintf("@{%s.Id}", kind.RefName())
	}
	return fmt.Sprintf("@{%s[%d].Id}", kind.RefName(), index)
}

// ParseToken recognizes a forward-reference token and returns the typed
// reference. Unindexed tokens yield Index -1.
func ParseToken(s string) (RefValue, bool) {
	m := tokenPattern.FindStringSubmatch(s)
	if m == nil {
		return RefValue{}, false
	}
	kind, ok := KindForRefName(m[1])
	if !ok {
		return RefValue{}, false
	}
	index := -1
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			// Pattern guarantees digits; overflow is the only failure mode.
			return RefValue{}, false
		}
		index = n
	}
	return RefValue{Kind: kind, Index: index}, true
}

// IsToken reports whether s has the forward-reference token shape.
func IsToken(s string) bool {
	return tokenPattern.MatchString(s)
}
