// Package errors provides typed errors for promkit
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrPrometheus indicates a Prometheus API error
	ErrPrometheus
	// ErrGrafana indicates a Grafana API error
	ErrGrafana
	// ErrAuth indicates an authentication failure
	ErrAuth
	// ErrRateLimit indicates the server rate limit was exceeded
	ErrRateLimit
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrTimeout indicates a timeout occurred
	ErrTimeout
)

// APIError is the base error type for all promkit errors
type APIError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	RetryAfter int // Seconds, from a 429 Retry-After header; 0 if absent
	Cause      error
}

// Error returns the error message
func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.Cause
}

// New creates a new APIError
func New(errType ErrorType, message string, cause error) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// WithStatus attaches an HTTP status code to the error
func (e *APIError) WithStatus(code int) *APIError {
	e.StatusCode = code
	return e
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *APIError {
	return New(ErrConfig, message, cause)
}

// PrometheusError creates a Prometheus API error
func PrometheusError(message string, cause error) *APIError {
	return New(ErrPrometheus, message, cause)
}

// GrafanaError creates a Grafana API error
func GrafanaError(message string, cause error) *APIError {
	return New(ErrGrafana, message, cause)
}

// AuthError creates an authentication error
func AuthError(message string) *APIError {
	return New(ErrAuth, message, nil)
}

// RateLimitError creates a rate limit error with optional Retry-After seconds
func RateLimitError(retryAfter int) *APIError {
	return &APIError{
		Type:       ErrRateLimit,
		Message:    "rate limit exceeded",
		StatusCode: 429,
		RetryAfter: retryAfter,
	}
}

// ValidationError creates a validation error
func ValidationError(message string) *APIError {
	return New(ErrValidation, message, nil)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *APIError {
	return New(ErrTimeout, message, cause)
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var apiErr *APIError
	if err == nil {
		return false
	}
	if errors.As(err, &apiErr) {
		return apiErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and retryable
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Type {
	case ErrRateLimit, ErrTimeout:
		return true
	case ErrPrometheus, ErrGrafana:
		// Retry only server-side failures
		return apiErr.StatusCode >= 500
	default:
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrPrometheus:
		return "PROMETHEUS"
	case ErrGrafana:
		return "GRAFANA"
	case ErrAuth:
		return "AUTH"
	case ErrRateLimit:
		return "RATE_LIMIT"
	case ErrValidation:
		return "VALIDATION"
	case ErrTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
