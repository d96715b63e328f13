// Package errors provides custom error types for better error handling throughout the application.
// Errors carry the layer and operation they came from so callers can branch on them
// without matching strings.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// LayeredError is an error annotated with the application layer and the operation that failed.
type LayeredError struct {
	Layer     string            // api, validation, file, config, project, context
	Operation string            // e.g. create_issue, provision_board
	Message   string            // human readable summary
	Cause     error             // underlying error, may be nil
	Context   map[string]string // extra key/value details (label name, path, ...)
}

// NewLayeredError creates a LayeredError.
func NewLayeredError(layer, operation, message string, cause error) *LayeredError {
	return &LayeredError{
		Layer:     layer,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// Error implements the error interface.
func (e *LayeredError) Error() string {
	base := fmt.Sprintf("[%s:%s] %s", e.Layer, e.Operation, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
		base = fmt.Sprintf("%s (%s)", base, strings.Join(pairs, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

// Unwrap returns the underlying cause.
func (e *LayeredError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value detail and returns the same error for chaining.
func (e *LayeredError) WithContext(key, value string) *LayeredError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// APIError wraps a failure talking to the GitHub API.
func APIError(operation, message string, cause error) error {
	return NewLayeredError("api", operation, message, cause)
}

// ValidationError reports invalid input.
func ValidationError(operation, message string) error {
	return NewLayeredError("validation", operation, message, nil)
}

// FileError wraps a failure reading or writing local files.
func FileError(operation, message string, cause error) error {
	return NewLayeredError("file", operation, message, cause)
}

// ConfigError wraps a failure loading or parsing configuration.
func ConfigError(operation, message string, cause error) error {
	return NewLayeredError("config", operation, message, cause)
}

// ProjectError wraps a failure while provisioning or populating a project board.
func ProjectError(operation, message string, cause error) error {
	return NewLayeredError("project", operation, message, cause)
}

// IsLayeredError reports whether err is (or wraps) a LayeredError and returns it.
func IsLayeredError(err error) (*LayeredError, bool) {
	if err == nil {
		return nil, false
	}
	var layered *LayeredError
	if stderrors.As(err, &layered) {
		return layered, true
	}
	return nil, false
}

// AsLayeredError returns the LayeredError inside err, or nil.
func AsLayeredError(err error) *LayeredError {
	layered, _ := IsLayeredError(err)
	return layered
}

// IsLayer reports whether err is a LayeredError from the given layer.
func IsLayer(err error, layer string) bool {
	layered, ok := IsLayeredError(err)
	return ok && layered.Layer == layer
}

// IsOperation reports whether err is a LayeredError for the given operation.
func IsOperation(err error, operation string) bool {
	layered, ok := IsLayeredError(err)
	return ok && layered.Operation == operation
}

// WithContextSafe adds context to err if it is a LayeredError and returns err unchanged otherwise.
func WithContextSafe(err error, key, value string) error {
	if err == nil {
		return nil
	}
	if layered := AsLayeredError(err); layered != nil {
		layered.WithContext(key, value)
	}
	return err
}

// WrapWithOperation wraps err in a new LayeredError.
func WrapWithOperation(err error, layer, operation, message string) error {
	if err == nil {
		return nil
	}
	return NewLayeredError(layer, operation, message, err)
}

// IsContextError reports whether err was caused by context cancellation or timeout.
func IsContextError(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// ContextError wraps a context cancellation or timeout in a LayeredError.
// Any other error is returned unchanged.
func ContextError(operation string, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled):
		return NewLayeredError("context", operation, "operation was cancelled (interrupted by user)", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewLayeredError("context", operation, "operation timed out", err)
	default:
		return err
	}
}

// PartialFailureError represents an error where some operations succeeded and some failed.
// This allows callers to distinguish between complete failures and partial failures.
type PartialFailureError struct {
	Errors []string // Individual error messages for failed operations
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("some items failed to create:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// NewPartialFailureError creates a new PartialFailureError with the given error messages.
func NewPartialFailureError(errors []string) *PartialFailureError {
	return &PartialFailureError{Errors: errors}
}

// IsPartialFailure checks if an error is a PartialFailureError.
func IsPartialFailure(err error) bool {
	var partial *PartialFailureError
	return stderrors.As(err, &partial)
}

// ErrorCollector accumulates per-item errors for an operation.
type ErrorCollector struct {
	operation string
	errors    []error
}

// NewErrorCollector creates a collector for the named operation.
func NewErrorCollector(operation string) *ErrorCollector {
	return &ErrorCollector{operation: operation}
}

// Add records err. Nil errors are ignored.
func (c *ErrorCollector) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Len returns the number of collected errors.
func (c *ErrorCollector) Len() int {
	return len(c.errors)
}

// Result returns nil when nothing failed, the error itself when exactly one failed,
// and a PartialFailureError otherwise.
func (c *ErrorCollector) Result() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	}
	messages := make([]string, 0, len(c.errors))
	for _, err := range c.errors {
		messages = append(messages, err.Error())
	}
	return NewPartialFailureError(messages)
}
