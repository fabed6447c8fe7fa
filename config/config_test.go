package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.ListenAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 15*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 256, cfg.MailboxSize)
	assert.Equal(t, 16, cfg.ViewerBuffer)
	assert.Equal(t, "lps_session", cfg.SessionCookie)
	assert.False(t, cfg.TrustForwardedFor)
	assert.Equal(t, slog.LevelInfo, cfg.Level().Level())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LPS_LISTEN_ADDR", "127.0.0.1:8099")
	t.Setenv("LPS_TICK_INTERVAL", "250ms")
	t.Setenv("LPS_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8099", cfg.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, slog.LevelDebug, cfg.Level().Level())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("gibberish"))
}
