package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service errors so handlers can pick an HTTP status
// without string matching.
type ErrorKind string

const (
	ErrKindValidation   ErrorKind = "validation"
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindAccessDenied ErrorKind = "access_denied"
	ErrKindConflict     ErrorKind = "conflict"
	ErrKindUpstream     ErrorKind = "upstream"
	ErrKindInternal     ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error // wrapped cause, may be nil
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

// KindOf extracts the classification of err, defaulting to internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrKindInternal
}

// UserMessage returns the message safe to show to the caller.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: message}
}

func NewAccessDeniedError(message string) *AppError {
	return &AppError{Kind: ErrKindAccessDenied, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: message}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindUpstream, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Message: message, Err: err}
}

// Shared sentinels for the common lookup and precondition failures.
var (
	ErrEventNotFound   = NewNotFoundError("Event not found or no longer active")
	ErrNoFilesProvided = NewValidationError("No photos were uploaded")
	ErrPhotoNotFound   = NewNotFoundError("Photo not found")
	ErrAccessDenied    = NewAccessDeniedError("Access denied")

	// ErrGenerationExhausted: every generated public event id collided.
	// Astronomically rare, the retry loop is a safety net only.
	ErrGenerationExhausted = NewConflictError("Failed to generate a unique event ID. Please try again.")
)

func NewTooManyFilesError(limit int) *AppError {
	return NewValidationError("Maximum %d photos allowed per upload", limit)
}

func NewUnsupportedFileTypeError(fileName, mimeType string) *AppError {
	return NewValidationError("File %q has unsupported type %q", fileName, mimeType)
}

func NewFileTooLargeError(fileName string, maxBytes int64) *AppError {
	return NewValidationError("File %q exceeds the maximum size of %d bytes", fileName, maxBytes)
}

func NewInvalidEmailError(email string) *AppError {
	return NewValidationError("%q is not a valid email address", email)
}
