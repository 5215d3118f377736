package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"fintrack/internal/apiclient"
	"fintrack/internal/result"
)

// Classify maps err into the taxonomy. It returns nil for nil errors and
// for cancellation, which callers must propagate unchanged.
//
// Rules, first match wins:
//  1. a taxonomy *Error passes through
//  2. cancellation is not classified
//  3. encode/decode faults are SerializationFailure
//  4. transport and IO faults (including deadlines) are Network
//  5. ErrInvalidState from the client is InvalidState
//  6. HTTP statuses map through FromStatus
//  7. everything else is Unknown
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	if e, ok := As(err); ok {
		return e
	}

	if IsCancellation(err) {
		return nil
	}

	var (
		serErr     *apiclient.SerializationError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		marshalErr *json.MarshalerError
		unsupErr   *json.UnsupportedTypeError
	)
	switch {
	case errors.As(err, &serErr),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &marshalErr),
		errors.As(err, &unsupErr):
		return &Error{Kind: SerializationFailure, Err: err}
	}

	var (
		transportErr *apiclient.TransportError
		netErr       net.Error
	)
	switch {
	case errors.As(err, &transportErr),
		errors.As(err, &netErr),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: Network, Err: err}
	}

	if errors.Is(err, apiclient.ErrInvalidState) {
		return &Error{Kind: InvalidState, Err: err}
	}

	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		e := FromStatus(statusErr.StatusCode, statusErr.Message)
		e.Err = err
		return e
	}

	return &Error{Kind: Unknown, Err: err}
}

// IsCancellation reports whether err stems from a cancelled context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Call runs one unit of work and wraps its outcome in a Result.
//
// On success the value is wrapped. On failure the error is classified and
// returned as an Error Result. A cancelled call yields a Loading Result and
// the cancellation error as the second value: it is never turned into an
// Error Result, and callers should drop the update.
func Call[T any](ctx context.Context, fn func(context.Context) (T, error)) (result.Result[T], error) {
	if err := ctx.Err(); IsCancellation(err) {
		return result.Loading[T](), err
	}

	v, err := fn(ctx)
	if err == nil {
		return result.Success(v), nil
	}

	if IsCancellation(err) {
		if _, domain := As(err); !domain {
			return result.Loading[T](), err
		}
	}
	if ctxErr := ctx.Err(); IsCancellation(ctxErr) {
		return result.Loading[T](), ctxErr
	}

	return result.Error[T](Classify(err)), nil
}
