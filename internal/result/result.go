// Package result provides the tri-state container published by
// view-models: Loading, Success(value) or Error(cause).
package result

import "fmt"

// State is the discriminant of a Result.
type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is an in-flight or completed operation. The zero value is Loading.
type Result[T any] struct {
	state State
	value T
	err   error
}

func Loading[T any]() Result[T] {
	return Result[T]{state: StateLoading}
}

func Success[T any](v T) Result[T] {
	return Result[T]{state: StateSuccess, value: v}
}

// Error builds a failed Result. A nil cause is a programming error and
// panics, since an Error without a cause cannot be rendered.
func Error[T any](err error) Result[T] {
	if err == nil {
		panic("result: Error called with nil error")
	}
	return Result[T]{state: StateError, err: err}
}

func (r Result[T]) State() State    { return r.state }
func (r Result[T]) IsLoading() bool { return r.state == StateLoading }
func (r Result[T]) IsSuccess() bool { return r.state == StateSuccess }
func (r Result[T]) IsError() bool   { return r.state == StateError }
func (r Result[T]) Err() error      { return r.err }
func (r Result[T]) Value() T        { return r.value }
func (r Result[T]) Get() (T, bool)  { return r.value, r.state == StateSuccess }

// ValueOr returns the value on success and fallback otherwise.
func (r Result[T]) ValueOr(fallback T) T {
	if r.state == StateSuccess {
		return r.value
	}
	return fallback
}

func (r Result[T]) String() string {
	switch r.state {
	case StateSuccess:
		return fmt.Sprintf("Success(%v)", r.value)
	case StateError:
		return fmt.Sprintf("Error(%v)", r.err)
	default:
		return "Loading"
	}
}

// Map transforms a successful value and carries Loading and Error through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.state {
	case StateSuccess:
		return Success(fn(r.value))
	case StateError:
		return Result[U]{state: StateError, err: r.err}
	default:
		return Loading[U]()
	}
}
