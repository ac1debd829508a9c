package model

import "fmt"

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation  ErrorCode = "VALIDATION_ERROR"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrConfig      ErrorCode = "CONFIG_ERROR"
	ErrUpstream    ErrorCode = "UPSTREAM_ERROR"
	ErrInternal    ErrorCode = "INTERNAL_ERROR"
	ErrUnavailable ErrorCode = "UNAVAILABLE"
)

// APIError is a structured error returned by the narabid API.
type APIError struct {
	Code        ErrorCode    `json:"code"`
	Message     string       `json:"message"`
	Detail      string       `json:"detail,omitempty"`
	UpstreamURL string       `json:"upstream_url,omitempty"`
	Details     []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// NewUpstreamError creates an UPSTREAM_ERROR carrying diagnostics from the
// failed upstream call.
func NewUpstreamError(msg, detail, upstreamURL string) *APIError {
	return &APIError{Code: ErrUpstream, Message: msg, Detail: detail, UpstreamURL: upstreamURL}
}
