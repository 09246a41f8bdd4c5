// Package errors provides structured error types for the layout engine.
//
// Every error produced by the engine, the configuration loader and the CLI
// carries a machine-readable [Code] so callers can tell a fatal setup problem
// (no measurement context) apart from a recoverable algorithm rejection
// (irreducible control flow) without string matching.
//
// # Error Codes
//
// Codes follow the same convention used throughout the repository:
//   - INVALID_*: Input or configuration validation failures
//   - MISSING_*: A required collaborator was not supplied
//   - LAYOUT_* / IRREDUCIBLE / DOUBLE_OFFSET: Layout pass failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingMeasurer, "no measurement context for pass %s", id)
//	if errors.Is(err, errors.ErrCodeIrreducible) {
//	    // retry with the general-purpose algorithm
//	}
//
//	err := errors.Wrap(errors.ErrCodeLayoutFailed, cause, "lay out cfg %d", cfgID)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Missing collaborators
	ErrCodeMissingMeasurer Code = "MISSING_MEASURER"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// Layout pass errors
	ErrCodeIrreducible  Code = "IRREDUCIBLE"
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"
	ErrCodeDoubleOffset Code = "DOUBLE_OFFSET"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
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
