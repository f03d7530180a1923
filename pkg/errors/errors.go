package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"pdf-compare/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeExhausted    ErrorType = "resource_exhausted"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// NewInvalidInputError reports a document that could not be opened or probed
func NewInvalidInputError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidInput,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewResourceExhaustedError reports a comparison aborted by the memory ceiling
func NewResourceExhaustedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExhausted,
		Message:    message,
		StatusCode: http.StatusInsufficientStorage,
		Cause:      cause,
	}
}

// FromDomain maps domain errors onto application errors. AppErrors pass through.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var validationErr *domain.ValidationError

	switch {
	case stderrors.As(err, &validationErr):
		return &AppError{
			Type:       ErrorTypeValidation,
			Message:    validationErr.Error(),
			StatusCode: http.StatusBadRequest,
			Cause:      err,
		}
	case stderrors.Is(err, domain.ErrResourceExhausted):
		return NewResourceExhaustedError("comparison exceeded the memory ceiling", err)
	case stderrors.Is(err, domain.ErrInvalidInput):
		return NewInvalidInputError(err.Error(), err)
	case stderrors.Is(err, domain.ErrDocumentNotFound):
		return &AppError{Type: ErrorTypeNotFound, Message: "document not found", StatusCode: http.StatusNotFound, Cause: err}
	case stderrors.Is(err, domain.ErrReportNotFound):
		return &AppError{Type: ErrorTypeNotFound, Message: "comparison not found", StatusCode: http.StatusNotFound, Cause: err}
	case stderrors.Is(err, domain.ErrInvalidToken):
		return &AppError{Type: ErrorTypeUnauthorized, Message: "invalid token", StatusCode: http.StatusUnauthorized, Cause: err}
	case stderrors.Is(err, domain.ErrStorageUnavailable):
		return NewNetworkError("storage unavailable", err)
	default:
		return NewInternalError("internal error", err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
