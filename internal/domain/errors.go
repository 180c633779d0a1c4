package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the scanner.
var (
	// ErrUnauthorized is returned when the flight-search API rejects the API key.
	ErrUnauthorized = errors.New("api key not set or invalid")

	// ErrInvalidRoute is returned when a route specification is malformed.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidQuery is returned when search parameters are inconsistent.
	ErrInvalidQuery = errors.New("invalid search query")
)

// maxErrorBodyLen bounds how much of an error response body is kept.
const maxErrorBodyLen = 200

// HTTPStatusError describes a non-success HTTP response other than an authorization failure.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// NewHTTPStatusError creates an HTTPStatusError, truncating the body.
func NewHTTPStatusError(code int, body string) *HTTPStatusError {
	return &HTTPStatusError{
		StatusCode: code,
		Body:       Truncate(body, maxErrorBodyLen),
	}
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// ProviderError wraps a failed query for a single route.
type ProviderError struct {
	// Route is the "ORIGIN-DESTINATION" pair that was queried
	Route string

	// Err is the underlying cause
	Err error
}

// NewProviderError wraps err with the route it occurred on.
func NewProviderError(route string, err error) *ProviderError {
	return &ProviderError{Route: route, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search %s: %v", e.Route, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FailureKind classifies a query error for reporting.
type FailureKind string

// Failure kinds.
const (
	FailureNone         FailureKind = ""
	FailureUnauthorized FailureKind = "unauthorized"
	FailureHTTPStatus   FailureKind = "http_status"
	FailureTransport    FailureKind = "transport"
)

// ClassifyFailure maps a query error to its FailureKind.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, ErrUnauthorized) {
		return FailureUnauthorized
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return FailureHTTPStatus
	}
	return FailureTransport
}

// Truncate returns at most n bytes of s, never splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
