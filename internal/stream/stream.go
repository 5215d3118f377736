// Package stream implements an observable current-value holder.
//
// Every subscriber first receives the current value, then each later value.
// A slow subscriber is never blocked on: it only ever sees the latest value
// it has not consumed yet.
package stream

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch chan T
}

// New returns a stream holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[*subscriber[T]]struct{}),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set publishes a new value. Last write wins.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = val
	v.broadcast(val)
}

// Update atomically replaces the current value with fn(current).
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = fn(v.cur)
	v.broadcast(v.cur)
	return v.cur
}

// Subscribe returns a channel that yields the current value and every later
// one until ctx is done, after which the channel is closed.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscriber[T]{ch: make(chan T, 1)}

	v.mu.Lock()
	s.ch <- v.cur
	v.subs[s] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, s)
		close(s.ch)
		v.mu.Unlock()
	}()

	return s.ch
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// broadcast must be called with mu held.
func (v *Value[T]) broadcast(val T) {
	for s := range v.subs {
		select {
		case <-s.ch:
		default:
		}
		s.ch <- val
	}
}
