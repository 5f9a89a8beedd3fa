package core

import (
	"fmt"
)

// Error is the canonical error shape shared by every component. Handlers
// convert it to an HTTP payload via pkg/gateway/apierror.
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Param     string    `json:"param,omitempty"`
	Code      string    `json:"code,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrInvalidInput covers malformed request payloads and malformed ids.
	ErrInvalidInput ErrorType = "invalid_input_error"
	// ErrNotFound covers lookups that matched no document.
	ErrNotFound ErrorType = "not_found_error"
	// ErrUpstream covers model-gateway and network failures. Agent code
	// converts these to defaulted results at the smallest possible scope;
	// only orchestration-level failures surface to a handler.
	ErrUpstream ErrorType = "upstream_error"
	// ErrAPI is the catch-all for internal failures.
	ErrAPI ErrorType = "api_error"
)

// NewInvalidInputError creates an invalid input error.
func NewInvalidInputError(message string) *Error {
	return &Error{
		Type:    ErrInvalidInput,
		Message: message,
	}
}

// NewInvalidInputErrorWithParam creates an invalid input error with a parameter.
func NewInvalidInputErrorWithParam(message, param string) *Error {
	return &Error{
		Type:    ErrInvalidInput,
		Message: message,
		Param:   param,
	}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *Error {
	return &Error{
		Type:    ErrNotFound,
		Message: message,
	}
}

// NewUpstreamError creates an upstream (model gateway / network) error.
func NewUpstreamError(message string) *Error {
	return &Error{
		Type:    ErrUpstream,
		Message: message,
	}
}

// NewAPIError creates a generic API error.
func NewAPIError(message string) *Error {
	return &Error{
		Type:    ErrAPI,
		Message: message,
	}
}
