// Package domainerrors defines the error vocabulary shared by services and
// the HTTP boundary. Services attach a Code to every error they return;
// handlers translate the code to an HTTP status without inspecting the
// underlying cause.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for boundary translation.
type Code string

const (
	// CodeValidation marks malformed or missing caller input. Carries
	// per-field messages when built with NewValidation.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks a value that fails trust-boundary parsing
	// (malformed UUID, unknown enum literal).
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a request that is syntactically broken
	// (unreadable JSON body, missing path parameter).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness violation: duplicate email or
	// national ID, duplicate active check-in.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks an illegal state transition, such as
	// checking out an already checked-out attendance record.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a role or ownership check failure.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks an unexpected failure. The message shown to the
	// caller must not leak internal diagnostic detail.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error. Fields is populated only for
// validation errors and maps field name to a human-readable message.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a domain error with the given code and caller-visible message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-visible message to an underlying error.
// The cause is preserved for logging but never serialized to the caller.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation builds a validation error carrying per-field messages.
func NewValidation(message string, fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readable alias for HasCode at call sites that test one code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// errors that never passed through this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf extracts per-field validation messages, or nil.
func FieldsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// ToHTTPStatus maps a domain code to the HTTP status the boundary returns.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvariantViolation:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
