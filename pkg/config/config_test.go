package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: test-store\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-store", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Queue.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Cache.SpeechTTL)
	assert.Equal(t, 16000, cfg.Speech.Vosk.SampleRate)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue:\n  driver: nats\nspeech:\n  vosk:\n    url: ws://file:2700\n"), 0o600))
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("VOSK_URL", "ws://vosk:2700")
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_RATE_LIMITING_MAX_REQUESTS", "5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "ws://vosk:2700", cfg.Speech.Vosk.URL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.RateLimiting.MaxRequests)
	assert.Equal(t, "nats", cfg.Queue.Driver)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue:\n  driver: kafka\nemail:\n  provider: sendgrid\n"), 0o600))

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `queue.driver "kafka"`)
	assert.Contains(t, err.Error(), "email.api_key is required")
}
