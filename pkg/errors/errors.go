// Package errors provides structured error types for poatree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*, INVARIANT_*: Unexpected internal faults
//
// # Taxonomy
//
// Two failures abort a run. A [FormatError] means the alignment graph could not
// be decoded. An [InvariantViolation] means the ancestry tree was corrupted by
// the assembler, which is always a bug. Partitions that conflict with the tree
// are not errors at all; the assembler simply skips them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown thread: %d", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
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
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidURL    Code = "INVALID_URL"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Remote errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Request lifetime errors
	ErrCodeCanceled Code = "CANCELED"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal           Code = "INTERNAL_ERROR"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeUnsupported        Code = "UNSUPPORTED"
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
// It walks the error chain and matches *Error, *FormatError and
// *InvariantViolation values.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	var fe *FormatError
	if errors.As(err, &fe) {
		return ErrCodeInvalidFormat
	}
	var iv *InvariantViolation
	if errors.As(err, &iv) {
		return ErrCodeInvariantViolation
	}
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
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.message()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FormatError reports malformed or inconsistent alignment graph input.
// Line is 1-based and zero when the problem is not tied to a single line
// (for example a count mismatch detected after the whole file was read).
type FormatError struct {
	Source string // File name or other input label (optional)
	Line   int
	Msg    string
}

// NewFormatError creates a FormatError for the given line.
func NewFormatError(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeInvalidFormat, e.message())
}

func (e *FormatError) message() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:", e.Line)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(e.Msg)
	return b.String()
}

// InvariantViolation reports that the ancestry tree no longer satisfies the
// tree invariant after a mutation. It always indicates a bug in the assembler
// and must abort the computation.
type InvariantViolation struct {
	Partition string // Canonical form of the partition being applied
	ThreadSet string // Thread-set whose insertion broke the tree (optional)
	Detail    string
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrCodeInvariantViolation, e.Detail)
	if e.Partition != "" {
		msg += fmt.Sprintf(" (partition %s", e.Partition)
		if e.ThreadSet != "" {
			msg += fmt.Sprintf(", thread-set %s", e.ThreadSet)
		}
		msg += ")"
	}
	return msg
}
