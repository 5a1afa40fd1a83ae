// Package config_test contains tests for the config package
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadpulse/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults with only the store DSN supplied", func(t *testing.T) {
		t.Setenv("LOADPULSE_DATABASE_URL", "storage/loadpulse.db")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "loadpulse", cfg.AppName)
		assert.Equal(t, "3000", cfg.AppPort)
		assert.Equal(t, config.Development, cfg.Environment)
		assert.Equal(t, config.LogLevelDebug, cfg.LogLevel)
		assert.Equal(t, "storage/loadpulse.db", cfg.DatabaseURL)
	})

	t.Run("fails without a store connection string", func(t *testing.T) {
		t.Setenv("LOADPULSE_DATABASE_URL", "")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOADPULSE_DATABASE_URL")
	})

	t.Run("rejects an unknown environment", func(t *testing.T) {
		t.Setenv("LOADPULSE_DATABASE_URL", "storage/loadpulse.db")
		t.Setenv("LOADPULSE_ENV", "staging")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid environment")
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("LOADPULSE_DATABASE_URL", "storage/other.db")
		t.Setenv("LOADPULSE_APP_PORT", "8080")
		t.Setenv("LOADPULSE_ENV", config.Production)
		t.Setenv("LOADPULSE_LOG_LEVEL", "warn")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.AppPort)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, config.LogLevelWarn, cfg.LogLevel)
	})
}

func TestConnectionPoolSizing(t *testing.T) {
	t.Run("test environment pins the pool to one connection", func(t *testing.T) {
		cfg := &config.Config{Environment: config.Test}
		assert.Equal(t, 1, cfg.GetMaxOpenConns())
		assert.Equal(t, 1, cfg.GetMaxIdleConns())
	})

	t.Run("production uses the larger defaults", func(t *testing.T) {
		cfg := &config.Config{Environment: config.Production}
		assert.Equal(t, 10, cfg.GetMaxOpenConns())
		assert.Equal(t, 5, cfg.GetMaxIdleConns())
	})

	t.Run("explicit values win", func(t *testing.T) {
		cfg := &config.Config{Environment: config.Test, DatabaseMaxOpenConns: 4, DatabaseMaxIdleConns: 2}
		assert.Equal(t, 4, cfg.GetMaxOpenConns())
		assert.Equal(t, 2, cfg.GetMaxIdleConns())
	})
}
