// Package validate holds the pure field validators: each takes a proposed
// value (plus, for uniqueness, a snapshot of the current batch) and returns
// either acceptance or a structured rejection. Validators never mutate
// anything and never abort batch-wide state; callers decide whether a
// rejection becomes a placeholder (construction) or is returned to the
// caller (update).
package validate

import (
	"errors"
	"fmt"
)

// Code categorizes a rejection.
type Code string

const (
	// CodeFormat means the value does not parse per the field's type.
	CodeFormat Code = "FORMAT_ERROR"

	// CodeRange means the value parses but violates an ordering or bound
	// constraint.
	CodeRange Code = "RANGE_ERROR"

	// CodeDuplicate means a name collides with another record in the batch.
	CodeDuplicate Code = "DUPLICATE_ERROR"
)

// Rejection is a structured, field-scoped validation failure.
type Rejection struct {
	Code    Code
	Field   string
	Message string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s: %s", r.Code, r.Field, r.Message)
}

// AsRejection extracts a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func reject(code Code, field, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
