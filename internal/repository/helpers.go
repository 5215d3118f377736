package repository

import (
	"fintrack/internal/apierr"
	"fintrack/internal/log"
)

func mapAll[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func saveOp(isNew bool) string {
	if isNew {
		return log.OpCreate
	}
	return log.OpUpdate
}

// invalid reports a local validation failure without calling the backend.
func invalid(err error) error {
	return &apierr.Error{Kind: apierr.InvalidState, Message: err.Error(), Err: err}
}
