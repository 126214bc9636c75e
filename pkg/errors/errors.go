// Package errors provides structured error types for cargometa.
//
// Every failure of a metadata request is reported as an [*Error] carrying a
// machine-readable [Code]. Four codes classify the layers a request can fail
// in:
//   - PROCESS: the tool could not be spawned or executed
//   - ENCODING: the tool's stdout was not valid UTF-8
//   - TOOL_REPORTED: the tool exited non-zero; Message is its stderr, trimmed
//   - STRUCTURAL_DECODE: stdout was text but did not match the metadata schema
//
// The remaining codes are used by the command-line interface for input
// validation.
//
// # Usage
//
//	md, err := cargo.New().ManifestPath("Cargo.toml").Exec(ctx)
//	if errors.Is(err, errors.ErrCodeToolReported) {
//	    fmt.Println(errors.UserMessage(err)) // the tool's own diagnostic
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProcess, origErr, "run %s", exe)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Metadata request failures
	ErrCodeProcess          Code = "PROCESS"
	ErrCodeEncoding         Code = "ENCODING"
	ErrCodeToolReported     Code = "TOOL_REPORTED"
	ErrCodeStructuralDecode Code = "STRUCTURAL_DECODE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidFeature Code = "INVALID_FEATURE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

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

// ToolReported creates a TOOL_REPORTED error whose message is the tool's
// diagnostic text, kept verbatim.
func ToolReported(diagnostic string) *Error {
	return &Error{Code: ErrCodeToolReported, Message: diagnostic}
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
