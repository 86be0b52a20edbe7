package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request entity too large")
	ErrNotFound   = errors.New("resource not found")
	ErrInternal   = errors.New("internal server error")
	ErrProcessing = errors.New("processing failed")
)

// AppError represents an application error with context
type AppError struct {
	Err        error  `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"status_code"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// ClientFault reports whether the error was caused by the caller's input.
// Client faults are answered but not logged as system failures.
func (e *AppError) ClientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Common error constructors

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func TooLarge(message string) *AppError {
	return &AppError{
		Err:        ErrTooLarge,
		Code:       "TOO_LARGE",
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Processing reports a failure in a collaborator (decoder, OCR engine).
// The caller sees the underlying failure's text verbatim.
func Processing(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrProcessing, err),
		Code:       "PROCESSING_ERROR",
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
