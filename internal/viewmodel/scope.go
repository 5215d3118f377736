// Package viewmodel drives screens: each view-model exposes observable
// Result streams and actions that launch asynchronous, cancellable loads.
package viewmodel

import (
	"context"
	"sync"

	"fintrack/internal/result"
	"fintrack/internal/stream"
)

// scope owns the tasks of one view-model. Close cancels them; a cancelled
// task drops its update.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

// launch runs fn in its own goroutine and returns immediately.
func (s *scope) launch(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Wait blocks until every launched task has finished.
func (s *scope) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight tasks and waits for them to return.
func (s *scope) Close() {
	s.cancel()
	s.wg.Wait()
}

// publish stores res unless the task was cancelled. It reports whether res
// was published.
func publish[T any](v *stream.Value[result.Result[T]], res result.Result[T], err error) bool {
	if err != nil {
		return false
	}
	v.Set(res)
	return true
}

// Action is the outcome of the last mutation of a view-model.
type Action struct {
	Op string
	ID string
}

const (
	OpSaved   = "saved"
	OpDeleted = "deleted"
)
