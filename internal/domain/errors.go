package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID   = "invalid"    // Invalid input or validation failure
	ENOTFOUND  = "not_found"  // Resource not found
	ECONFLICT  = "conflict"   // Resource conflict (e.g., seeding an existing record)
	ETOOLARGE  = "too_large"  // Request entity too large
	ERATELIMIT = "rate_limit" // Rate limit exceeded
	EINTERNAL  = "internal"   // Internal server error
)

// Sentinel errors for the inspection progress store. They are carried in
// Error.Err so callers can match them with errors.Is.
var (
	// ErrMissingIdentifier is returned when no inspection id is supplied.
	ErrMissingIdentifier = errors.New("missing inspection identifier")

	// ErrInspectionNotFound is returned when neither a stored record nor a
	// basic info seed exists for an inspection id.
	ErrInspectionNotFound = errors.New("inspection not found")

	// ErrAreaNotFound is returned when a mutation targets an area id that is
	// not part of the checklist.
	ErrAreaNotFound = errors.New("area not found")

	// ErrPersistence is returned when the backing store rejects a write.
	// The in-memory record has already been updated when this is returned.
	ErrPersistence = errors.New("persistence failed")

	// ErrDeserialization is returned when stored bytes do not decode into a
	// valid record or seed.
	ErrDeserialization = errors.New("stored data could not be decoded")

	// ErrNotLoaded is returned when a mutation is attempted before a record
	// has been loaded.
	ErrNotLoaded = errors.New("inspection not loaded")
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "progress.load")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code, op, message string) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		// Internal errors get a generic message, except store failures whose
		// message was written for the user
		if e.Code == EINTERNAL && !errors.Is(e, ErrPersistence) && !errors.Is(e, ErrDeserialization) {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// RateLimit creates a rate limit error.
func RateLimit(op string) *Error {
	return &Error{
		Code:    ERATELIMIT,
		Op:      op,
		Message: "Too many requests. Please try again later.",
	}
}

// =============================================================================
// Progress Store Errors
// =============================================================================

// MissingIdentifier reports a load without an inspection id.
func MissingIdentifier(op string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: "No inspection ID provided",
		Err:     ErrMissingIdentifier,
	}
}

// InspectionNotFound reports an id with no stored record and no seed.
func InspectionNotFound(op, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("No assessment found with ID: %s", id),
		Err:     ErrInspectionNotFound,
	}
}

// AreaNotFound reports a mutation against an unknown area id.
func AreaNotFound(op, areaID string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("area with ID %q not found", areaID),
		Err:     ErrAreaNotFound,
	}
}

// Persistence reports a failed write to the backing store.
func Persistence(err error, op string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: "Failed to save inspection data",
		Err:     fmt.Errorf("%w: %w", ErrPersistence, err),
	}
}

// Deserialization reports stored bytes that could not be decoded.
func Deserialization(err error, op, key string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: "Failed to load inspection data",
		Err:     fmt.Errorf("%w: key %q: %w", ErrDeserialization, key, err),
	}
}

// NotLoaded reports a mutation issued before a successful load.
func NotLoaded(op string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: "Inspection data has not been loaded",
		Err:     ErrNotLoaded,
	}
}

// ValidationError represents field-level validation errors.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed", e.Op)
}

// NewValidationError creates a new validation error with the first field error.
func NewValidationError(op, field, message string) *ValidationError {
	return &ValidationError{
		Op: op,
		Fields: map[string]string{
			field: message,
		},
	}
}
