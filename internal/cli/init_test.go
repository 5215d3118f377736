package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	"fintrack/internal/log"
)

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("FINTRACK_ENV", "staging")
	t.Setenv("FINTRACK_TOKEN_BACKEND", "memory")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Staging, cfg.Environment)

	t.Setenv("FINTRACK_ENV", "moon")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid environment 'moon'")
}

func TestOpenTokenStoreAndClient(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Environment:  config.Development,
		TokenBackend: "sqlite",
		TokenDBPath:  filepath.Join(t.TempDir(), "tokens.db"),
		TokenKeyHex:  "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
	}

	store, err := OpenTokenStore(ctx, cfg, log.Discard())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Save(ctx, "abc"))
	assert.Equal(t, "abc", store.Token())

	client, err := NewAPIClient(cfg, store, log.Discard())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", client.BaseURL())

	cfg.TokenKeyHex = "not-hex"
	_, err = OpenTokenStore(ctx, cfg, log.Discard())
	assert.Error(t, err)
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(context.Background(), log.Discard())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
