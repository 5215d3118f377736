// Package apierr defines the closed error taxonomy surfaced to view-models
// and the safe-call wrapper that classifies raw failures into it.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one case of the closed taxonomy.
type Kind int

const (
	Unknown Kind = iota
	Network
	SerializationFailure
	InvalidState
	Unauthorized
	Forbidden
	NotFound
	ClientError
	ServerError
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case SerializationFailure:
		return "serialization_failure"
	case InvalidState:
		return "invalid_state"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case ClientError:
		return "client_error"
	case ServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Error is the only error type carried by an Error Result. Code is the HTTP
// status for ClientError and ServerError, and the observed status for the
// other HTTP kinds; it is zero otherwise.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var s string
	switch {
	case e.Code != 0:
		s = fmt.Sprintf("%s (%d)", e.Kind, e.Code)
	default:
		s = e.Kind.String()
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and, when the target carries a
// code, the same code. This makes errors.Is(err, apierr.ErrNotFound) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == 0 || t.Code == e.Code
}

// RequiresAuth reports failures the user fixes by logging in again.
func (e *Error) RequiresAuth() bool {
	return e.Kind == Unauthorized || e.Kind == Forbidden
}

// Retryable reports transient failures worth a user-triggered retry.
func (e *Error) Retryable() bool {
	return e.Kind == Network || e.Kind == ServerError
}

// UserMessage is a short sentence suitable for display.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case Network:
		return "Cannot reach the server. Check your connection and try again."
	case SerializationFailure:
		return "The server sent a response we could not read."
	case InvalidState:
		if e.Message != "" {
			return capitalize(e.Message) + "."
		}
		return "The app is in an unexpected state."
	case Unauthorized:
		if e.Message != "" {
			return capitalize(e.Message) + "."
		}
		return "Your session has expired."
	case Forbidden:
		return "You do not have access to this resource."
	case NotFound:
		return "The requested item no longer exists."
	case ClientError:
		if e.Message != "" {
			return capitalize(e.Message) + "."
		}
		return fmt.Sprintf("The request was rejected (%d).", e.Code)
	case ServerError:
		return fmt.Sprintf("The server failed to handle the request (%d). Try again later.", e.Code)
	default:
		return "Something went wrong."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// Sentinels for errors.Is comparisons.
var (
	ErrNetwork       = &Error{Kind: Network}
	ErrSerialization = &Error{Kind: SerializationFailure}
	ErrInvalidState  = &Error{Kind: InvalidState}
	ErrUnauthorized  = &Error{Kind: Unauthorized}
	ErrForbidden     = &Error{Kind: Forbidden}
	ErrNotFound      = &Error{Kind: NotFound}
	ErrClient        = &Error{Kind: ClientError}
	ErrServer        = &Error{Kind: ServerError}
	ErrUnknown       = &Error{Kind: Unknown}
)

// New builds a taxonomy error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// FromStatus maps an HTTP status code to the taxonomy.
func FromStatus(code int, message string) *Error {
	switch {
	case code == http.StatusUnauthorized:
		return &Error{Kind: Unauthorized, Code: code, Message: message}
	case code == http.StatusForbidden:
		return &Error{Kind: Forbidden, Code: code, Message: message}
	case code == http.StatusNotFound:
		return &Error{Kind: NotFound, Code: code, Message: message}
	case code >= 300 && code < 500:
		// 400, 409 and 422 carry validation detail from the backend; every
		// other 3xx/4xx is reported the same way with its code.
		return &Error{Kind: ClientError, Code: code, Message: message}
	case code >= 500 && code < 600:
		return &Error{Kind: ServerError, Code: code, Message: message}
	default:
		return &Error{Kind: Unknown, Code: code, Message: message}
	}
}

// As returns the taxonomy error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
