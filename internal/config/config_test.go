package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.True(t, cfg.DriverEnabled)
	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.Empty(t, cfg.Host)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BLOCKDROP_HOST", "127.0.0.1")
	t.Setenv("BLOCKDROP_PORT", "9000")
	t.Setenv("BLOCKDROP_LOG_LEVEL", "debug")
	t.Setenv("BLOCKDROP_STORAGE_TYPE", "Redis")
	t.Setenv("BLOCKDROP_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("BLOCKDROP_DRIVER_ENABLED", "false")
	t.Setenv("BLOCKDROP_TICK_INTERVAL", "10ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.False(t, cfg.DriverEnabled)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("BLOCKDROP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := Server{Port: 8080, LogLevel: "info", StorageType: StorageMemory, DriverEnabled: true, TickInterval: time.Millisecond}

	tests := []struct {
		name   string
		modify func(*Server)
	}{
		{"redis without url", func(c *Server) { c.StorageType = StorageRedis }},
		{"unknown storage", func(c *Server) { c.StorageType = "postgres" }},
		{"port out of range", func(c *Server) { c.Port = 70000 }},
		{"zero tick interval", func(c *Server) { c.TickInterval = 0 }},
		{"bad log level", func(c *Server) { c.LogLevel = "loud" }},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
