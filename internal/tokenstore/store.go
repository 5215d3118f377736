// Package tokenstore persists the authentication token and streams its
// current value to the HTTP client and the UI.
package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/log"
)

// Store holds the current token. The in-memory stream is the single source
// of truth; durable backends write through to disk before publishing.
type Store interface {
	// Token returns the current token, or "" when logged out.
	Token() string
	// Watch yields the current token and every later change until ctx is done.
	Watch(ctx context.Context) <-chan string
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

var ErrEmptyToken = errors.New("empty token")

// Backend selects the Store implementation.
type Backend string

const (
	MemoryBackend Backend = "memory"
	SQLiteBackend Backend = "sqlite"
)

func (b Backend) String() string {
	return string(b)
}

// IsValid returns true if the backend is known
func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Backends returns every valid backend.
func Backends() []Backend {
	return []Backend{MemoryBackend, SQLiteBackend}
}

// Config holds configuration for store creation
type Config struct {
	Backend Backend

	// SQLite specific
	DBPath string
	// Key seals the persisted token with secretbox when set. Must be 32 bytes.
	Key []byte
}

// Validate validates the store configuration
func (c Config) Validate() error {
	if !c.Backend.IsValid() {
		return fmt.Errorf("invalid token backend: %s", c.Backend)
	}
	if c.Backend == SQLiteBackend && c.DBPath == "" {
		return errors.New("database path is required for sqlite token backend")
	}
	if len(c.Key) != 0 && len(c.Key) != KeySize {
		return fmt.Errorf("token key must be %d bytes, got %d", KeySize, len(c.Key))
	}
	return nil
}

// Open creates the store selected by cfg.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentTokens)

	switch cfg.Backend {
	case SQLiteBackend:
		s, err := NewSQLiteStore(ctx, cfg.DBPath, cfg.Key, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite token store: %w", err)
		}
		logger.Info("Initialized SQLite token store",
			"db_path", cfg.DBPath,
			"sealed", len(cfg.Key) != 0,
			"logged_in", s.Token() != "")
		return s, nil
	default:
		logger.Info("Initialized memory token store")
		return NewMemoryStore(), nil
	}
}
