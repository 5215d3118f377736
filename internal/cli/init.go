// Package cli provides the initialization steps shared by the fintrack
// commands: environment, configuration, logging, token store and client.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/apiclient"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/tokenstore"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the logger described by cfg and sets it as the
// default logger. Records go to stderr so that command output stays clean.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// OpenTokenStore opens the token store selected by cfg.
func OpenTokenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (tokenstore.Store, error) {
	key, err := cfg.TokenKey()
	if err != nil {
		return nil, err
	}
	store, err := tokenstore.Open(ctx, tokenstore.Config{
		Backend: tokenstore.Backend(cfg.TokenBackend),
		DBPath:  cfg.TokenDBPath,
		Key:     key,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return store, nil
}

// NewAPIClient builds the authenticated client reading tokens from store.
func NewAPIClient(cfg *config.Config, store tokenstore.Store, logger *log.Logger) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Config{
		BaseURL:        cfg.BaseURL(),
		ConnectTimeout: cfg.ConnectTimeout,
		RequestTimeout: cfg.RequestTimeout,
		SocketTimeout:  cfg.SocketTimeout,
		UserAgent:      "fintrack-cli",
	}, store, logger)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
