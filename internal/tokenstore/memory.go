package tokenstore

import (
	"context"
	"strings"

	"fintrack/internal/stream"
)

// MemoryStore keeps the token for the lifetime of the process only.
type MemoryStore struct {
	value *stream.Value[string]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{value: stream.New("")}
}

func (s *MemoryStore) Token() string {
	return s.value.Get()
}

func (s *MemoryStore) Watch(ctx context.Context) <-chan string {
	return s.value.Subscribe(ctx)
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	s.value.Set(token)
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.value.Set("")
	return nil
}

func (s *MemoryStore) Close() error { return nil }
