package connectors

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a remote service rejects the credentials
// with HTTP 401.
var ErrUnauthorized = errors.New("unauthorized: invalid API key or secret")

// ErrNoData is returned when a response decodes but carries no result.
var ErrNoData = errors.New("response contained no result")

// APIError is a non-success HTTP status other than 401.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// DecodeError wraps a malformed response body.
type DecodeError struct {
	Service  string
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode %s: %v", e.Service, e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
