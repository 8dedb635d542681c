package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr            string `mapstructure:"listen_addr"`
	RedisAddr             string `mapstructure:"redis_addr"`
	OpenAIAPIKey          string `mapstructure:"openai_api_key"`
	OpenAIModel           string `mapstructure:"openai_model"`
	AdviceCacheTTLMinutes int    `mapstructure:"advice_cache_ttl_minutes"`
	RateLimitRequests     int    `mapstructure:"rate_limit_requests"`
	RateLimitWindowSecs   int    `mapstructure:"rate_limit_window_seconds"`
	Development           bool   `mapstructure:"development"`
}

const (
	DefaultListenAddr            = ":8080"
	DefaultOpenAIModel           = "gpt-4o-mini"
	DefaultAdviceCacheTTLMinutes = 60
	DefaultRateLimitRequests     = 5
	DefaultRateLimitWindowSecs   = 60
)

// LoadConfig reads the configuration file at path and applies defaults
// and environment overrides. An empty path runs on defaults only, which
// keeps the service usable without Redis or an API key.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"listen_addr":               DefaultListenAddr,
		"openai_model":              DefaultOpenAIModel,
		"advice_cache_ttl_minutes":  DefaultAdviceCacheTTLMinutes,
		"rate_limit_requests":       DefaultRateLimitRequests,
		"rate_limit_window_seconds": DefaultRateLimitWindowSecs,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// la clave de API siempre puede venir del entorno
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.OpenAIAPIKey = apiKey
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return errors.New("missing listen_addr in configuration")
	}
	if cfg.RateLimitRequests <= 0 {
		return errors.New("invalid rate_limit_requests")
	}
	if cfg.RateLimitWindowSecs <= 0 {
		return errors.New("invalid rate_limit_window_seconds")
	}
	if cfg.AdviceCacheTTLMinutes < 0 {
		return errors.New("invalid advice_cache_ttl_minutes")
	}
	return nil
}
