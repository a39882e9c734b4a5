package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
)

func TestLoad_MissingStoreURL(t *testing.T) {
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_KEY", "secret")

	cfg, err := Load()
	assert.Nil(t, cfg)

	var cfgErr *apperr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "STORE_URL", cfgErr.Setting)
}

func TestLoad_MissingStoreKey(t *testing.T) {
	t.Setenv("STORE_URL", "mongodb://localhost:27017")
	t.Setenv("STORE_KEY", "")

	_, err := Load()

	var cfgErr *apperr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "STORE_KEY", cfgErr.Setting)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_URL", "mongodb://localhost:27017")
	t.Setenv("STORE_KEY", "secret")
	t.Setenv("RELOAD_INTERVAL", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ReloadInterval)
	assert.Equal(t, 5*time.Second, cfg.FlashTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "fleet", cfg.StoreDatabase)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_URL", "mongodb://localhost:27017")
	t.Setenv("STORE_KEY", "secret")
	t.Setenv("RELOAD_INTERVAL", "45s")
	t.Setenv("LOG_MAX_BACKUPS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.ReloadInterval)
	assert.Equal(t, 7, cfg.LogMaxBackups)
}

func TestValidate_NonPositiveReloadInterval(t *testing.T) {
	cfg := &Config{StoreURL: "mongodb://x", StoreKey: "k", ReloadInterval: 0}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RELOAD_INTERVAL")
}

func TestLoad_BoolAndAuthSettings(t *testing.T) {
	t.Setenv("STORE_URL", "mongodb://localhost:27017")
	t.Setenv("STORE_KEY", "secret")
	t.Setenv("STORE_ENSURE_INDEXES", "false")
	t.Setenv("JWT_EXPIRY", "2h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.EnsureIndexes)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.NotEmpty(t, cfg.JWTSecret)
}
