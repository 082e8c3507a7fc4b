package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeTransport indicates the model backend was unreachable or
	// timed out before producing a response.
	ErrorTypeTransport ErrorType = "transport_error"

	// ErrorTypeProvider indicates the backend answered with a
	// well-formed response that carries an error payload.
	ErrorTypeProvider ErrorType = "provider_error"

	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeServerError    ErrorType = "server_error"
)

// APIError represents a structured error with type, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level
// error response body.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewTransportError creates an APIError for an unreachable backend.
func NewTransportError(message string) *APIError {
	return &APIError{Type: ErrorTypeTransport, Message: message}
}

// NewProviderError creates an APIError for a backend-reported error payload.
func NewProviderError(message string) *APIError {
	return &APIError{Type: ErrorTypeProvider, Message: message}
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{Type: ErrorTypeInvalidRequest, Param: param, Message: message}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{Type: ErrorTypeNotFound, Message: message}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{Type: ErrorTypeServerError, Message: message}
}

// IsTransport reports whether err is an APIError of type transport_error.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeTransport
}

// IsProvider reports whether err is an APIError of type provider_error.
func IsProvider(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeProvider
}

// IsNotFound reports whether err is an APIError of type not_found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeNotFound
}
