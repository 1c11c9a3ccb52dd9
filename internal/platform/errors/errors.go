// Package errors provides error types and utilities for reconflow.
// It extends the standard errors package with the tool failure taxonomy
// used at the adapter boundary: every tool failure is either transient
// (worth retrying) or fatal (recorded and not retried).
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimitExceeded indicates the local limiter denied a token within its wait budget
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnknownTool indicates a policy referenced a tool that is not registered
	ErrUnknownTool = errors.New("unknown tool")

	// ErrConfiguration indicates an invalid workflow policy or scheduler configuration
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCircuitOpen indicates the per-tool circuit breaker is open
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrInvalidTarget indicates the target is not a valid domain or IP
	ErrInvalidTarget = errors.New("invalid target")

	// ErrMissingCredential indicates an API-backed tool has no credential configured
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidResponse indicates a tool response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrUnavailable indicates a remote service is temporarily unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// ToolError is the typed failure returned across the adapter boundary.
// Transient errors are retried by the retry executor; fatal errors are
// recorded as failed and not retried.
type ToolError struct {
	Tool      string
	Transient bool
	Err       error
}

// Error implements the error interface
func (e *ToolError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("tool %s: %s error: %v", e.Tool, kind, e.Err)
}

// Unwrap returns the underlying error
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a transient tool failure.
// If err is nil, Transient returns nil.
func Transient(tool string, err error) error {
	if err == nil {
		return nil
	}
	return &ToolError{Tool: tool, Transient: true, Err: err}
}

// Fatal wraps err as a fatal tool failure.
// If err is nil, Fatal returns nil.
func Fatal(tool string, err error) error {
	if err == nil {
		return nil
	}
	return &ToolError{Tool: tool, Transient: false, Err: err}
}

// IsTransient reports whether err is classified as transient.
// Rate limit denials from the local limiter count as transient.
func IsTransient(err error) bool {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Transient
	}
	return errors.Is(err, ErrRateLimitExceeded) || errors.Is(err, ErrTimeout)
}

// IsFatal reports whether err is a terminal tool failure.
func IsFatal(err error) bool {
	var te *ToolError
	if errors.As(err, &te) {
		return !te.Transient
	}
	return false
}

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
