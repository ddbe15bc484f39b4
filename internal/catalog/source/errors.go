package source

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for remote fetches.
type ErrorCategory string

const (
	// ErrorInvalidEndpoint indicates the configured URL is malformed.
	// Misconfiguration: retrying cannot help.
	ErrorInvalidEndpoint ErrorCategory = "invalid_endpoint"

	// ErrorHTTPStatus indicates a response status outside [200,300).
	ErrorHTTPStatus ErrorCategory = "http_status"

	// ErrorEmptyBody indicates a zero-byte response body. Distinct from an
	// empty JSON array, which is a valid (empty) dataset.
	ErrorEmptyBody ErrorCategory = "empty_body"

	// ErrorDecode indicates a non-empty body that does not parse as a
	// country array. The payload shape is wrong; retrying will not fix it.
	ErrorDecode ErrorCategory = "decode"

	// ErrorTransport indicates the round trip itself failed (timeout,
	// connection refused, DNS).
	ErrorTransport ErrorCategory = "transport"
)

// FetchError wraps fetch failures with normalized categorization so the
// retry policy can decide transient vs. permanent without string matching.
type FetchError struct {
	Category   ErrorCategory
	StatusCode int // set for ErrorHTTPStatus only
	Message    string
	Underlying error
	Retryable  bool
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("fetch [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("fetch [%s]: %s", e.Category, e.Message)
}

// Unwrap supports error unwrapping.
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// NewFetchError creates a categorized fetch error. Retryability follows the
// category: HTTP status, empty body, and transport failures are transient;
// a bad endpoint or a malformed payload is permanent.
func NewFetchError(category ErrorCategory, message string, underlying error) *FetchError {
	retryable := category == ErrorHTTPStatus ||
		category == ErrorEmptyBody ||
		category == ErrorTransport

	return &FetchError{
		Category:   category,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether another attempt is worth making. Unrecognized
// errors are treated as transient, matching the generic-failure rule.
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return true
}

// GetCategory extracts the error category, defaulting to transport for
// errors produced outside this package.
func GetCategory(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ErrorTransport
}
