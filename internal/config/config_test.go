package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Zero(t, cfg.Server.Timeout)
	assert.Zero(t, cfg.Server.ThrottleLimit)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Gemini.Model)
	assert.Equal(t, int64(1024), cfg.Model.Anthropic.MaxTokens)
	assert.Equal(t, 10*time.Minute, cfg.RedisConfig.TTL)
	assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr)
	assert.False(t, cfg.CacheEnable)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("OPENAI_RENDER_PDF", "true")
	t.Setenv("CACHE_ENABLE", "true")
	t.Setenv("REDIS_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Model.Gemini.APIKey)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.True(t, cfg.Model.OpenAI.RenderPDF)
	assert.True(t, cfg.CacheEnable)
	assert.Equal(t, time.Minute, cfg.RedisConfig.TTL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_MODEL=gemini-2.0-flash\nUPLOAD_DIR=/tmp/up\n"), 0o600))
	t.Setenv("UPLOAD_DIR", "/var/up")
	t.Cleanup(func() { os.Unsetenv("GEMINI_MODEL") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Gemini.Model)
	assert.Equal(t, "/var/up", cfg.Upload.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_THROTTLE_LIMIT", "many")

	_, err := Load()
	assert.Error(t, err)
}
