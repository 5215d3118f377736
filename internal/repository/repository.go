// Package repository turns feature API calls into Results of domain values.
// Every operation returns (Result, error) where the error is non-nil only
// when the context was cancelled; failures travel inside the Result as
// taxonomy errors.
package repository

import (
	"context"

	"fintrack/internal/apierr"
	"fintrack/internal/log"
	"fintrack/internal/result"
)

// call runs fn through the safe-call wrapper and logs classified failures.
func call[T any](ctx context.Context, logger *log.Logger, op string, fn func(context.Context) (T, error), attrs ...any) (result.Result[T], error) {
	res, err := apierr.Call(ctx, fn)
	if err != nil {
		logger.DebugContext(ctx, "Operation cancelled", append([]any{log.FieldOperation, op}, attrs...)...)
		return res, err
	}
	if res.IsError() {
		kind := apierr.Unknown
		if e, ok := apierr.As(res.Err()); ok {
			kind = e.Kind
		}
		args := append([]any{
			log.FieldOperation, op,
			log.FieldErrorKind, kind.String(),
			log.FieldError, res.Err().Error(),
		}, attrs...)
		logger.WarnContext(ctx, "Operation failed", args...)
	}
	return res, nil
}

// none is the value of operations that only report completion.
type none = struct{}
