package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"fintrack/internal/log"
	"fintrack/internal/stream"
)

const tokenKey = "auth_token"

// SQLiteStore persists the token in a key-value preference table and keeps
// the in-memory stream in step with it.
type SQLiteStore struct {
	db     *sql.DB
	sealer *sealer
	value  *stream.Value[string]
	logger *log.Logger

	// writeMu orders disk writes and publications so that the stream never
	// disagrees with the table.
	writeMu sync.Mutex
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(ctx context.Context, dbPath string, key []byte, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentTokens)
	}
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		sealer: s,
		logger: logger,
	}

	token, err := store.load(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.value = stream.New(token)

	return store, nil
}

func (s *SQLiteStore) load(ctx context.Context) (string, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, tokenKey).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	token, err := s.sealer.open(stored)
	if err != nil {
		// An unreadable token only means the user has to log in again.
		s.logger.WarnContext(ctx, "Discarding persisted token", log.FieldError, err)
		return "", nil
	}
	return token, nil
}

func (s *SQLiteStore) Token() string {
	return s.value.Get()
}

func (s *SQLiteStore) Watch(ctx context.Context) <-chan string {
	return s.value.Subscribe(ctx)
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	sealed, err := s.sealer.seal(token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		tokenKey, sealed)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.value.Set(token)

	s.logger.DebugContext(ctx, "Token saved", log.FieldOperation, log.OpSave)
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.value.Set("")

	s.logger.DebugContext(ctx, "Token cleared", log.FieldOperation, log.OpClear)
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
