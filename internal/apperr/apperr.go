// Package apperr defines the typed errors services return and the HTTP
// status each one maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindServer       Kind = "SERVER"
)

// FieldError is a single failed field check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries an HTTP status and a client-safe message.
// Cause is kept for server-side logging and never serialized.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Field   string
	Details []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Validation creates a 400 error tagged with the failing field (may be empty).
func Validation(field, message string) *Error {
	e := &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Field:   field,
	}
	if field != "" {
		e.Details = []FieldError{{Field: field, Message: message}}
	}
	return e
}

// ValidationFields creates a 400 error from several field failures.
// The first failure becomes the message.
func ValidationFields(details ...FieldError) *Error {
	e := &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Details: details,
	}
	if len(details) > 0 {
		e.Message = details[0].Message
		e.Field = details[0].Field
	}
	return e
}

// NotFound creates a 404 error for a resource and optional identifier.
func NotFound(resource, id string) *Error {
	msg := resource + " not found"
	if id != "" {
		msg = fmt.Sprintf("%s with id %s not found", resource, id)
	}
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: msg,
	}
}

func Conflict(message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Status:  http.StatusConflict,
		Message: message,
	}
}

func Unauthorized(message string) *Error {
	return &Error{
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

func Forbidden(message string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Status:  http.StatusForbidden,
		Message: message,
	}
}

func RateLimited(message string) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: message,
	}
}

// Server creates a 500 error. The message names the failed operation.
func Server(message string, cause error) *Error {
	return &Error{
		Kind:    KindServer,
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

// As extracts the *Error from err's chain, or nil.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}

func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
