package catalog

import (
	"fmt"
	"regexp"
)

// Placeholder sentinel format: <<PLACEHOLDER:FieldName>> or
// <<PLACEHOLDER:FieldName (reason clause)>>
//
// The <<...>> delimiter pair cannot appear in valid billing API field
// values, so sentinels are distinguishable from legitimate data. External
// renderers and the execution collaborator parse this textual form; it is a
// wire-compatibility requirement and must not change.
var sentinelPattern = regexp.MustCompile(`^<<PLACEHOLDER:([A-Za-z][A-Za-z0-9_.]*)(?: \((.+)\))?>>$`)

// MintSentinel builds a placeholder sentinel for a field, optionally
// embedding a short reason clause.
func MintSentinel(field, reason string) string {
	if reason == "" {
		return fmt.Sprintf("<<PLACEHOLDER:%s>>", field)
	}
	return fmt.Sprintf("<<PLACEHOLDER:%s (%s)>>", field, reason)
}

// ParseSentinel recognizes a placeholder sentinel and returns the embedded
// field name and optional reason clause.
func ParseSentinel(s string) (field, reason string, ok bool) {
	m := sentinelPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsSentinel reports whether s has the placeholder sentinel shape.
func IsSentinel(s string) bool {
	return sentinelPattern.MatchString(s)
}
