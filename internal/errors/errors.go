// Package errors provides the error taxonomy used across gvo. It defines
// sentinel errors, typed errors that carry context (the offending path, the
// limit that was hit, the editor operation that failed), and helpers that map
// any error to the process exit code.
//
// # Error Types
//
// Resolution errors abort an invocation before the editor is touched:
//   - NotFoundError: a literal target does not exist or is not a regular file
//   - LimitError: directory expansion exceeded one of its bounds
//   - ValidationError: bad usage or invalid configuration
//
// Dispatch errors come from the editor capability:
//   - EditorError: probing, sending to or launching the editor failed
//   - TimeoutError: a bounded editor operation ran out of time
//
// # Usage
//
//	err := errors.NewNotFoundError("missing.txt")
//	if errors.Is(err, errors.ErrTargetNotFound) { ... }
//
//	var limitErr *errors.LimitError
//	if errors.As(err, &limitErr) { fmt.Println(limitErr.Limit) }
//
//	os.Exit(errors.ExitCode(err))
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Join   = errors.Join
)

// Process exit codes.
const (
	// ExitOK is returned when the targets were dispatched.
	ExitOK = 0
	// ExitResolution is returned for usage, configuration and target resolution failures.
	ExitResolution = 1
	// ExitDispatch is returned when neither the existing instance nor a new one
	// could take the targets.
	ExitDispatch = 2
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for conditions that are only interesting while debugging.
	SeverityDebug Severity = iota
	// SeverityWarning is for user mistakes (missing files, limits).
	SeverityWarning
	// SeverityError is for failures of the environment (editor missing, spawn failed).
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Resolution sentinel errors
var (
	// ErrTargetNotFound indicates that a literal target does not exist.
	ErrTargetNotFound = New("target not found")
	// ErrTooManyTargets indicates that more targets were requested than allowed.
	ErrTooManyTargets = New("too many targets")
	// ErrExpansionTooLarge indicates that a directory expansion exceeded its
	// size, depth or entry bound.
	ErrExpansionTooLarge = New("directory expansion too large")
	// ErrUsage indicates that the command line was malformed.
	ErrUsage = New("invalid usage")
	// ErrUnreadable indicates that a target or a directory below it could
	// not be read.
	ErrUnreadable = New("target not readable")
)

// Editor sentinel errors
var (
	// ErrProbeTimeout indicates that probing for a server ran out of time.
	// The locator swallows it; it never reaches the user.
	ErrProbeTimeout = New("probe timed out")
	// ErrDispatchSend indicates that the open command was not accepted by the server.
	ErrDispatchSend = New("failed to send open command")
	// ErrLaunchFailed indicates that a new editor instance could not be started.
	ErrLaunchFailed = New("failed to launch editor")
	// ErrEditorNotFound indicates that the editor binary is not on PATH.
	ErrEditorNotFound = New("editor binary not found")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// GvoError is implemented by every typed error in this package.
type GvoError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// ExitCode returns the process exit code this error maps to.
	ExitCode() int
}

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
	exitCode int
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// ExitCode returns the exit code for the error.
func (e *baseError) ExitCode() int {
	return e.exitCode
}

// -----------------------------------------------------------------------------
// Resolution Errors
// -----------------------------------------------------------------------------

// NotFoundError reports a literal target that cannot be opened.
//
// Example:
//
//	err := errors.NewNotFoundError("missing.txt")
//	fmt.Println(err) // "target 'missing.txt' not found"
//
//	err = errors.NewNotFoundError("src").WithReason("is a directory")
//	fmt.Println(err) // "target 'src' not found: is a directory"
type NotFoundError struct {
	baseError
	Path   string
	Reason string
}

// NewNotFoundError creates a new NotFoundError for path.
func NewNotFoundError(path string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:  fmt.Sprintf("target '%s' not found", path),
			severity: SeverityWarning,
			exitCode: ExitResolution,
		},
		Path: path,
	}
}

// WithReason explains why the path cannot be used.
func (e *NotFoundError) WithReason(reason string) *NotFoundError {
	e.Reason = reason
	return e
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("target '%s' not found", e.Path)
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrTargetNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// LimitError reports that a hard cap on the requested targets was exceeded.
// Kind is either ErrTooManyTargets or ErrExpansionTooLarge.
//
// Example:
//
//	err := errors.NewLimitError(errors.ErrTooManyTargets, "expand.max_files", 30).WithPath("/src")
//	fmt.Println(err) // "too many targets: /src exceeds expand.max_files (limit 30)"
type LimitError struct {
	baseError
	Kind  error
	Limit string
	Max   int64
	Path  string
}

// NewLimitError creates a new LimitError. limit names the configuration key
// of the bound and max is its value.
func NewLimitError(kind error, limit string, max int64) *LimitError {
	return &LimitError{
		baseError: baseError{
			message:  kind.Error(),
			severity: SeverityWarning,
			exitCode: ExitResolution,
		},
		Kind:  kind,
		Limit: limit,
		Max:   max,
	}
}

// WithPath records the argument whose resolution hit the limit.
func (e *LimitError) WithPath(path string) *LimitError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *LimitError) Error() string {
	subject := "request"
	if e.Path != "" {
		subject = e.Path
	}
	return fmt.Sprintf("%s: %s exceeds %s (limit %d)", e.Kind, subject, e.Limit, e.Max)
}

// Is checks if this error matches the target.
func (e *LimitError) Is(target error) bool {
	if _, ok := target.(*LimitError); ok {
		return true
	}
	if e.Kind != nil && target == e.Kind {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input: malformed usage or configuration.
//
// Example:
//
//	err := errors.NewValidationError("no paths given").WithField("args")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityWarning,
			exitCode: ExitResolution,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput || target == ErrUsage {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Editor Errors
// -----------------------------------------------------------------------------

// EditorError represents a failure talking to the editor.
//
// Example:
//
//	err := errors.NewEditorError("launch", errors.ErrLaunchFailed).WithBinary("gvim")
//	fmt.Println(err) // "editor error [op=launch, binary=gvim]: failed to launch editor"
type EditorError struct {
	baseError
	Op         string
	Binary     string
	ServerName string
}

// NewEditorError creates a new EditorError for the named operation
// ("probe", "send" or "launch").
func NewEditorError(op string, cause error) *EditorError {
	return &EditorError{
		baseError: baseError{
			cause:    cause,
			severity: SeverityError,
			exitCode: ExitDispatch,
		},
		Op: op,
	}
}

// WithBinary adds the editor binary to the error context.
func (e *EditorError) WithBinary(binary string) *EditorError {
	e.Binary = binary
	return e
}

// WithServerName adds the server name to the error context.
func (e *EditorError) WithServerName(name string) *EditorError {
	e.ServerName = name
	return e
}

// WithMessage sets a message placed before the cause.
func (e *EditorError) WithMessage(message string) *EditorError {
	e.message = message
	return e
}

// Error returns the formatted error message.
func (e *EditorError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Binary != "" {
		parts = append(parts, fmt.Sprintf("binary=%s", e.Binary))
	}
	if e.ServerName != "" {
		parts = append(parts, fmt.Sprintf("server=%s", e.ServerName))
	}

	prefix := "editor error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("editor error [%s]", strings.Join(parts, ", "))
	}

	switch {
	case e.message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	default:
		return fmt.Sprintf("%s: %s", prefix, e.message)
	}
}

// Is checks if this error matches the target.
func (e *EditorError) Is(target error) bool {
	if _, ok := target.(*EditorError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("sending open command", 3*time.Second)
//	fmt.Println(err) // "timeout error: sending open command (timeout: 3s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
	// Kind is an optional sentinel naming which timeout this is, such as
	// ErrProbeTimeout.
	Kind error
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:  operation,
			severity: SeverityWarning,
			exitCode: ExitDispatch,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// WithKind tags the error with a sentinel it should also match.
func (e *TimeoutError) WithKind(kind error) *TimeoutError {
	e.Kind = kind
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if target == ErrTimeout || (e.Kind != nil && target == e.Kind) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// ExitCode maps err to the process exit code.
//
//   - nil: ExitOK
//   - typed errors: their own code
//   - wrapped resolution sentinels: ExitResolution
//   - anything else: ExitDispatch
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var gvoErr GvoError
	if As(err, &gvoErr) {
		return gvoErr.ExitCode()
	}

	if IsResolution(err) {
		return ExitResolution
	}
	return ExitDispatch
}

// IsResolution returns true if err happened before any editor interaction:
// a missing or unreadable target, an exceeded limit, or bad usage.
func IsResolution(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrTargetNotFound) || Is(err, ErrTooManyTargets) ||
		Is(err, ErrExpansionTooLarge) || Is(err, ErrUsage) || Is(err, ErrInvalidInput) ||
		Is(err, ErrUnreadable)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement GvoError and
// SeverityDebug for context cancellation, which the user asked for.
func GetSeverity(err error) Severity {
	if err == nil || Is(err, context.Canceled) {
		return SeverityDebug
	}

	var gvoErr GvoError
	if As(err, &gvoErr) {
		return gvoErr.Severity()
	}
	if IsResolution(err) {
		return SeverityWarning
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to read directory")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
