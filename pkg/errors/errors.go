// Package errors provides structured error types for plotcraft.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API and library callers
//   - Machine-readable error codes for programmatic handling
//   - Structured constraint violations for rejected attribute values
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND / UNKNOWN_*: Resource not found
//   - CONFLICTING_ARGUMENTS: Contradictory caller arguments
//   - CONSTRAINT_VIOLATION: A value rejected by an attribute validator
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownChart, "unknown chart: %s", name)
//	if errors.Is(err, errors.ErrCodeUnknownChart) {
//	    // Handle lookup error
//	}
//
//	// Mutually exclusive arguments
//	return errors.Conflict("path", "ids", "parents")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSpec   Code = "INVALID_SPEC"

	// Configuration errors: the caller passed contradictory arguments.
	ErrCodeConflictingArguments Code = "CONFLICTING_ARGUMENTS"

	// Constraint violations reported by attribute validators.
	ErrCodeConstraintViolation Code = "CONSTRAINT_VIOLATION"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeUnknownAttribute Code = "UNKNOWN_ATTRIBUTE"
	ErrCodeUnknownChart     Code = "UNKNOWN_CHART"
	ErrCodeColumnNotFound   Code = "COLUMN_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

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

// Conflict reports mutually exclusive arguments that were supplied together.
// The message names every parameter so callers can tell which ones clash.
func Conflict(names ...string) *Error {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return New(ErrCodeConflictingArguments,
		"arguments %s are mutually exclusive", strings.Join(quoted, ", "))
}

// coder is implemented by error types that carry a Code without being *Error.
type coder interface {
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or any error exposing
// a code via ErrorCode (such as *Violation and Violations).
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
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
