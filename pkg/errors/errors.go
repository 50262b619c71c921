// Package errors provides structured error types for the mosaic hosts.
//
// The layout engine reports expected failures as a plain false. Hosts (the
// workspace, the CLI and the HTTP server) turn those into coded errors so
// callers can tell a missing tile from a locked one and so HTTP responses
// carry a matching status.
//
// # Error Codes
//
//   - NOT_FOUND: a tile or node does not exist
//   - LOCKED: the node's lock flag refuses the operation
//   - INVALID_OPERATION: the request is well-formed but meaningless, such as
//     moving a tile onto itself
//   - INVALID_INPUT: malformed input (bad direction, zone, percentage, JSON)
//   - STORAGE: the snapshot store failed
//   - INTERNAL: anything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLocked, "tile %q is locked", tile)
//	if errors.Is(err, errors.ErrCodeLocked) {
//	    // Handle refusal
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save layout")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeLocked           Code = "LOCKED"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeStorage          Code = "STORAGE"
	ErrCodeInternal         Code = "INTERNAL"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	// Suggestions lists close matches for a NOT_FOUND identifier.
	Suggestions []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestions attaches close matches and returns e.
func (e *Error) WithSuggestions(s []string) *Error {
	e.Suggestions = s
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Suggestions returns the first non-empty suggestion list found along err's
// wrap chain.
func Suggestions(err error) []string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil
		}
		if len(e.Suggestions) > 0 {
			return e.Suggestions
		}
		err = e.Unwrap()
	}
	return nil
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code hosts should respond with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeLocked:
		return http.StatusConflict
	case ErrCodeInvalidOperation, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
