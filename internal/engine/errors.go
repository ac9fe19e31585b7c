package engine

import (
	"errors"
	"fmt"

	"github.com/draftbill/draftbill/internal/catalog"
)

// EngineError represents a failure the engine surfaces to the caller
// instead of recovering locally.
//
// Only three categories exist:
//   - Not found: an update locator resolved to no live record
//   - Schema error: an operation named an entity kind with no schema
//   - Reference error: a parent reference that is structurally invalid
//
// Validator rejections are not EngineErrors; they are validate.Rejection
// values, recovered into placeholders during construction and returned
// as-is during updates.
type EngineError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind identifies the affected entity kind, when known.
	Kind catalog.EntityKind

	// Field identifies the affected field (for reference errors).
	Field string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a locator resolved to no live record.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeSchema indicates an operation named an unknown entity kind.
	ErrCodeSchema ErrorCode = "SCHEMA_ERROR"

	// ErrCodeReference indicates a structurally invalid parent reference.
	ErrCodeReference ErrorCode = "REFERENCE_ERROR"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	switch {
	case e.Kind != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (kind=%s, field=%s)", e.Code, e.Message, e.Kind, e.Field)
	case e.Kind != "":
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is a locator miss.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeNotFound
}

// IsSchemaError returns true if the error names an unknown entity kind.
// Uses errors.As to handle wrapped errors.
func IsSchemaError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeSchema
}

// IsReferenceError returns true if the error is a structural reference
// failure. Uses errors.As to handle wrapped errors.
func IsReferenceError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeReference
}

// NewNotFoundError creates an EngineError for a locator that resolved to
// no live record.
func NewNotFoundError(kind catalog.EntityKind, locator string) *EngineError {
	return &EngineError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no record matches %s", locator),
		Kind:    kind,
	}
}

// NewSchemaError creates an EngineError for an unknown entity kind.
func NewSchemaError(kind catalog.EntityKind) *EngineError {
	return &EngineError{
		Code:    ErrCodeSchema,
		Message: fmt.Sprintf("unknown entity kind %q", string(kind)),
		Kind:    kind,
	}
}

// NewReferenceError creates an EngineError for a structurally invalid
// parent reference.
func NewReferenceError(kind catalog.EntityKind, field, message string) *EngineError {
	return &EngineError{
		Code:    ErrCodeReference,
		Message: message,
		Kind:    kind,
		Field:   field,
	}
}
