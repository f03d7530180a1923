package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrResourceExhausted  = errors.New("resource ceiling exceeded")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrReportNotFound     = errors.New("comparison report not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStorageUnavailable = errors.New("storage not configured")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// InputError marks a document that could not be opened or probed. It always
// matches ErrInvalidInput.
type InputError struct {
	Side  int
	Cause error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("document %d: %v", e.Side, e.Cause)
}

func (e *InputError) Unwrap() error { return e.Cause }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// PageError is a local failure of a single page; it never aborts a comparison.
type PageError struct {
	PageNumber int
	Side       int
	Op         string
	Cause      error
}

func (e *PageError) Error() string {
	if e.Side > 0 {
		return fmt.Sprintf("page %d (document %d): %s: %v", e.PageNumber, e.Side, e.Op, e.Cause)
	}
	return fmt.Sprintf("page %d: %s: %v", e.PageNumber, e.Op, e.Cause)
}

func (e *PageError) Unwrap() error { return e.Cause }

// PartialError is returned when a comparison aborts after some pages completed.
type PartialError struct {
	PagesCompleted int
	PagesTotal     int
	Cause          error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("comparison aborted after %d of %d pages: %v", e.PagesCompleted, e.PagesTotal, e.Cause)
}

func (e *PartialError) Unwrap() error { return e.Cause }
