// Package apperr defines the application error type shared by all stores.
// Every error crossing a package boundary carries a Kind, which the HTTP
// layer maps to a status code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindBusinessRule
	KindNoPlayers
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindDuplicate:
		return "DUPLICATE_RESOURCE"
	case KindBusinessRule:
		return "BUSINESS_RULE_VIOLATION"
	case KindNoPlayers:
		return "NO_PLAYERS"
	case KindDatabase:
		return "DATABASE_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is the concrete error type returned by the stores.
type Error struct {
	Kind    Kind
	Message string
	// Field and Value carry the offending input for validation and
	// duplicate errors.
	Field   string
	Value   any
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// Validation reports invalid input. Field and value are optional context.
func Validation(message, field string, value any) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field, Value: value}
}

// NotFound reports a missing resource, e.g. NotFound("Player", 42).
func NotFound(resource string, identifier any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found with identifier: %v", resource, identifier),
		Value:   identifier,
	}
}

// Duplicate reports a uniqueness violation.
func Duplicate(resource, field string, value any) *Error {
	return &Error{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("%s with %s '%v' already exists", resource, field, value),
		Field:   field,
		Value:   value,
	}
}

// BusinessRule reports a violated domain rule.
func BusinessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message}
}

// NoPlayers reports an operation that needs at least one registered player.
func NoPlayers() *Error {
	return &Error{Kind: KindNoPlayers, Message: "no players registered"}
}

// Database wraps a low-level database failure with the operation that hit it.
func Database(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: fmt.Sprintf("database error during %s", op), wrapped: err}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
