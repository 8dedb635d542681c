package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
	assert.Equal(t, DefaultAdviceCacheTTLMinutes, cfg.AdviceCacheTTLMinutes)
	assert.Equal(t, DefaultRateLimitRequests, cfg.RateLimitRequests)
	assert.Equal(t, DefaultRateLimitWindowSecs, cfg.RateLimitWindowSecs)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FromFile(t *testing.T) {
	configPath := writeTestConfig(t, `{
		"listen_addr": ":9090",
		"redis_addr": "localhost:6379",
		"openai_model": "gpt-4o",
		"rate_limit_requests": 10,
		"rate_limit_window_seconds": 30,
		"development": true
	}`)

	cfg, err := LoadConfig(configPath)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30, cfg.RateLimitWindowSecs)
	assert.True(t, cfg.Development)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	configPath := writeTestConfig(t, `{"rate_limit_requests": -1}`)

	_, err := LoadConfig(configPath)

	assert.Error(t, err)
}

func TestLoadConfig_EnvAPIKeyOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", cfg.OpenAIAPIKey)
}
