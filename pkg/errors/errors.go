// Package errors provides structured error types for needful.
//
// Every failure the needs layer reports carries a machine-readable [Code] so
// that callers (templates, handlers, the CLI) can tell a programming error
// from a lookup miss without matching on message text.
//
// # Error Codes
//
//   - CONFIGURATION: setup-time misuse (no static folder, unbound assets)
//   - INVALID_STATE: a need declared after the markup was rendered
//   - *_NOT_FOUND: unknown module, resource or library names
//   - INVALID_*: malformed resources, names, paths or manifests
//
// # Usage
//
//	err := errors.New(errors.ErrCodeResourceNotFound, "no resource %q in module %q", name, mod)
//	if errors.Is(err, errors.ErrCodeResourceNotFound) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "fingerprint library %s", lib)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Setup and lifecycle errors
	ErrCodeConfiguration Code = "CONFIGURATION"
	ErrCodeInvalidState  Code = "INVALID_STATE"

	// Input validation errors
	ErrCodeInvalidResource Code = "INVALID_RESOURCE"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Lookup errors
	ErrCodeModuleNotFound   Code = "MODULE_NOT_FOUND"
	ErrCodeResourceNotFound Code = "RESOURCE_NOT_FOUND"
	ErrCodeLibraryNotFound  Code = "LIBRARY_NOT_FOUND"

	// Dependency errors
	ErrCodeDependencyCycle Code = "DEPENDENCY_CYCLE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsNotFound reports whether err is any of the lookup failures.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeModuleNotFound, ErrCodeResourceNotFound, ErrCodeLibraryNotFound:
		return true
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
