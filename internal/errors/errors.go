package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/sumcalc/internal/control"
)

// Application exit codes define the standard exit statuses for the
// application. These codes signal the outcome of the program execution to
// the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between algorithms.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorMemory   = 5   // Indicates a memory budget was exceeded.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags
// or values. It indicates that the application cannot proceed due to
// incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SolveError encapsulates a solver failure while preserving the original
// cause. This allows structured handling and inspection of what went wrong
// during the subset-sum search.
type SolveError struct {
	// Algorithm names the strategy that failed.
	Algorithm string
	// Cause is the underlying error that triggered this solve error.
	Cause error
}

// Error returns a message combining strategy and cause.
func (e SolveError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Algorithm, e.Cause.Error())
}

// Unwrap returns the original wrapped error, allowing error chain inspection
// with errors.Is and errors.As.
func (e SolveError) Unwrap() error { return e.Cause }

// ValidationError represents a malformed problem rejected before any solver
// runs: bad size, negative precision, or an unknown algorithm name. Invalid
// input is never silently coerced.
type ValidationError struct {
	// Field is the name of the problem field that failed validation, when
	// a single field is to blame.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid problem: %s", e.Message)
	}
	return fmt.Sprintf("invalid problem: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field with a formatted
// message.
func NewValidationError(field, format string, a ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// MemoryError represents a resource-exhaustion condition: the search would
// need more memory than is available or budgeted. It is reported explicitly
// rather than degrading into a silent truncation.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available.
	Available uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes", e.Requested, e.Available)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w,
// so the wrapped error stays visible to errors.Is and errors.As.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// HandleSolveError maps a solve outcome to a process exit code, writing a
// short diagnostic for genuine failures. A stop request is terminal but
// non-erroneous; its partial (possibly empty) result was already presented
// by the caller.
func HandleSolveError(err error, out io.Writer) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(out, "Search timed out.")
		return ExitErrorTimeout
	case errors.Is(err, control.ErrStopped):
		fmt.Fprintln(out, "Search stopped before completion.")
		return ExitErrorCanceled
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(out, "Search canceled.")
		return ExitErrorCanceled
	}

	var memErr MemoryError
	if errors.As(err, &memErr) {
		fmt.Fprintf(out, "Error: %v\n", memErr)
		return ExitErrorMemory
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(out, "Error: %v\n", cfgErr)
		return ExitErrorConfig
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		fmt.Fprintf(out, "Error: %v\n", valErr)
		return ExitErrorConfig
	}

	fmt.Fprintf(out, "Error: %v\n", err)
	return ExitErrorGeneric
}
