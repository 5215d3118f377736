package apiclient

import (
	"errors"
	"fmt"
)

// ErrInvalidState reports a client that cannot issue requests, for example
// one built without a base URL.
var ErrInvalidState = errors.New("invalid client state")

// StatusError is returned for every non-2xx response.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// TransportError wraps failures to reach the backend or read its response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError wraps request encoding and response decoding failures.
type SerializationError struct {
	Op  string // "encode" or "decode"
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s body: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
