package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"pdf-study-assistant/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeProcessing   ErrorType = "processing"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeUnavailable  ErrorType = "unavailable"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeNetwork      ErrorType = "network"
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

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProcessing,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
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

// NewUnavailableError creates an error for a dependency that is not configured
func NewUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
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

// NewNetworkError creates an error for a failed call to an upstream service
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// FromDomain maps domain sentinel errors onto AppErrors. Errors that are
// already AppErrors are returned unchanged; anything unknown is internal.
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
	case stderrors.Is(err, domain.ErrMalformedDocument):
		return NewProcessingError("The file could not be read as a PDF document", err)
	case stderrors.Is(err, domain.ErrNoExtractableText):
		return NewProcessingError("No text could be extracted from this document", err)
	case stderrors.As(err, &validationErr):
		return NewValidationError(validationErr.Error())
	case stderrors.Is(err, domain.ErrInvalidFile):
		return NewValidationError("Unsupported file type. Only PDF (.pdf) files are accepted.")
	case stderrors.Is(err, domain.ErrFileTooLarge):
		return NewValidationError("File too large", err.Error())
	case stderrors.Is(err, domain.ErrInvalidQuestionCount):
		return NewValidationError(fmt.Sprintf("num_questions must be between %d and %d", domain.MinQuizQuestions, domain.MaxQuizQuestions))
	case stderrors.Is(err, domain.ErrSessionNotFound):
		return NewNotFoundError("Study session not found")
	case stderrors.Is(err, domain.ErrInvalidToken):
		return NewUnauthorizedError("Invalid token")
	case stderrors.Is(err, domain.ErrAgentUnavailable):
		return NewUnavailableError("Study agent not configured (missing GCP_PROJECT_ID or credentials)", err)
	case stderrors.Is(err, domain.ErrAgentCall):
		return NewNetworkError("Study agent request failed", err)
	default:
		return NewInternalError("Internal server error", err)
	}
}
