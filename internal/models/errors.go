package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every AppError wraps exactly one of these so callers can branch
// with errors.Is instead of matching messages.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrConflict          = errors.New("operation conflicts with current state")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrMustBePositive    = errors.New("value must be positive")
	ErrMustBeNonNegative = errors.New("value must be non-negative")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrNoneFound         = errors.New("no matching records found")
	ErrSomeInvalid       = errors.New("some references are invalid")
)

// Error codes exposed to API clients
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeMustBePositive    = "MUST_BE_POSITIVE"
	CodeMustBeNonNegative = "MUST_BE_NON_NEGATIVE"
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeNoneFound         = "NONE_FOUND"
	CodeSomeInvalid       = "SOME_INVALID"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInputWithMsg creates a validation error for a missing or malformed input field
func ErrInvalidInputWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Field:   field,
		Err:     ErrInvalidInput,
	}
}

// ErrInvalidFormatWithMsg creates a format error (email, phone, price precision)
func ErrInvalidFormatWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeInvalidFormat,
		Message: message,
		Field:   field,
		Err:     ErrInvalidFormat,
	}
}

// ErrAlreadyExistsWithMsg creates a uniqueness error
func ErrAlreadyExistsWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeAlreadyExists,
		Message: message,
		Field:   field,
		Err:     ErrAlreadyExists,
	}
}

// ErrMustBePositiveWithMsg creates a lower-bound error for strictly positive values
func ErrMustBePositiveWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeMustBePositive,
		Message: message,
		Field:   field,
		Err:     ErrMustBePositive,
	}
}

// ErrMustBeNonNegativeWithMsg creates a lower-bound error for values that may be zero
func ErrMustBeNonNegativeWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeMustBeNonNegative,
		Message: message,
		Field:   field,
		Err:     ErrMustBeNonNegative,
	}
}

// ErrInvalidReferenceWithMsg creates an error for a reference to a missing record
func ErrInvalidReferenceWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeInvalidReference,
		Message: message,
		Field:   field,
		Err:     ErrInvalidReference,
	}
}

// ErrNoneFoundWithMsg creates an error for an id set that resolved to nothing
func ErrNoneFoundWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeNoneFound,
		Message: message,
		Field:   field,
		Err:     ErrNoneFound,
	}
}

// ErrSomeInvalidWithMsg creates an error for an id set that only partly resolved
func ErrSomeInvalidWithMsg(field, message string) error {
	return &AppError{
		Code:    CodeSomeInvalid,
		Message: message,
		Field:   field,
		Err:     ErrSomeInvalid,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// Reason returns the client-facing message of err: the AppError message when
// there is one, the plain error text otherwise.
func Reason(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
