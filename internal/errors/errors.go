package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication & sessions
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeSessionExpired  ErrorCode = "SESSION_EXPIRED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	// Command parsing & dispatch
	ErrCodeParse          ErrorCode = "PARSE_ERROR"
	ErrCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND"
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Booking invariants
	ErrCodeInventoryUnavailable   ErrorCode = "INVENTORY_UNAVAILABLE"
	ErrCodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	ErrCodeSeatOccupied           ErrorCode = "SEAT_OCCUPIED"
	ErrCodeCapacityExceeded       ErrorCode = "CAPACITY_EXCEEDED"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"

	// External collaborators
	ErrCodeCollaborator ErrorCode = "COLLABORATOR_FAILURE"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// AppError is a structured error that can be surfaced to terminal clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message)
}

func SessionExpired() *AppError {
	return New(ErrCodeSessionExpired, "SESSION EXPIRED - SIGN IN AGAIN")
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// Parse reports a malformed command. The message is the per-command usage
// string shown verbatim on the terminal.
func Parse(usage string) *AppError {
	return New(ErrCodeParse, usage)
}

func UnknownCommand(verb string) *AppError {
	return New(ErrCodeUnknownCommand, fmt.Sprintf("UNKNOWN COMMAND - %s", verb))
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InventoryUnavailable(flight, class string) *AppError {
	return New(ErrCodeInventoryUnavailable, fmt.Sprintf("UNABLE TO SELL %s - CLASS %s CLOSED", flight, class))
}

func InvalidStateTransition(message string) *AppError {
	return New(ErrCodeInvalidStateTransition, message)
}

func SeatOccupied(seat string) *AppError {
	return New(ErrCodeSeatOccupied, fmt.Sprintf("SEAT %s ALREADY OCCUPIED", seat))
}

func CapacityExceeded(flight, class string) *AppError {
	return New(ErrCodeCapacityExceeded, fmt.Sprintf("INVENTORY ABOVE CAPACITY - %s CLASS %s", flight, class))
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s NOT FOUND", resource))
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

func Collaborator(service string, cause error) *AppError {
	return Wrap(ErrCodeCollaborator, fmt.Sprintf("%s SERVICE UNAVAILABLE", service), cause)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, "Database error", cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
