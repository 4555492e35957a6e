package domain

import "errors"

// Domain errors
var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrOCRUnavailable       = errors.New("ocr unavailable")
	ErrInvalidFile          = errors.New("invalid file")
	ErrFileTooLarge         = errors.New("file too large")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNoExtractableText    = errors.New("no extractable text")
	ErrInvalidQuestionCount = errors.New("invalid question count")
	ErrAgentUnavailable     = errors.New("study agent not configured")
	ErrAgentCall            = errors.New("study agent call failed")
	ErrInvalidToken         = errors.New("invalid token")
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
