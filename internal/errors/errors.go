// Package errors provides the coded error types used across nozzletray.
//
// Two failure families matter to callers:
//   - CONFIGURATION: the tray family config is unusable. Raised before any
//     kernel call and fatal for the whole family.
//   - GEOMETRY: the modeling kernel rejected an operation while building one
//     tier. Carried as *GeometryError so the tier and pipeline step are known.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "inner spacing %.3f is negative", si)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // abort generation
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeConfiguration Code = "CONFIGURATION"
	ErrCodeGeometry      Code = "GEOMETRY"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeIO            Code = "IO_ERROR"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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

// Configuration is shorthand for New(ErrCodeConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *GeometryError with a
// matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available. The
// outermost coded error in the chain wins, so a Wrap around a geometry
// failure reports the wrapping code. Returns empty string if the chain
// holds no coded error.
func GetCode(err error) Code {
	switch e := err.(type) {
	case nil:
		return ""
	case *Error:
		return e.Code
	case *GeometryError:
		return ErrCodeGeometry
	case interface{ Unwrap() error }:
		return GetCode(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if code := GetCode(inner); code != "" {
				return code
			}
		}
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

// GeometryError reports a kernel rejection while building a single tier.
// These are deterministic: retrying with the same inputs fails the same way.
type GeometryError struct {
	Tier  int    // tier index being assembled
	Step  string // pipeline step, e.g. "thread-holes" or "clearance[1]"
	Cause error
}

// Geometry wraps a kernel failure with the tier and step that triggered it.
func Geometry(tier int, step string, cause error) *GeometryError {
	return &GeometryError{Tier: tier, Step: step, Cause: cause}
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: tier %d: %s: %v", ErrCodeGeometry, e.Tier, e.Step, e.Cause)
}

func (e *GeometryError) Unwrap() error {
	return e.Cause
}

// Join is errors.Join re-exported so callers importing this package under
// the name "errors" keep access to it.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// As is errors.As re-exported for the same reason as Join.
func As(err error, target any) bool {
	return errors.As(err, target)
}
