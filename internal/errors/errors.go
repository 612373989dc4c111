// Package errors provides structured error types and exit codes for the validation harness.
package errors

import (
	"fmt"
)

// Exit codes for errors raised before or outside the test matrix.
// A completed matrix run exits with its failure count instead (see the
// harness package), so these only apply when the harness cannot run at all.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (solver could not be started, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, etc.)
	ExitEnvironmentError = 3 // Environment error (solver binary missing, unreadable reference dir, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindEnvironment
)

// HarnessError is the base error type for the harness.
type HarnessError struct {
	Kind    ErrorKind
	Message string
	Cause   error // Underlying error
}

func (e *HarnessError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *HarnessError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// Wrap wraps an error as a runtime error with additional context.
func Wrap(err error, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(err error, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *HarnessError {
	return &HarnessError{
		Kind:    KindEnvironment,
		Message: fmt.Sprintf(format, args...),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if he, ok := err.(*HarnessError); ok {
		return he.ExitCode()
	}
	return ExitRuntimeError
}
