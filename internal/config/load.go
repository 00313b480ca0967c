package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces all environment variables read by Load, so
// server.port becomes CPE_SERVER_PORT.
const envPrefix = "CPE"

// requiredKeys have no sensible default and must come from the environment
// or a config file. Viper only sees an environment variable through
// AutomaticEnv once the key is known, so these are bound explicitly.
var requiredKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"llm.gemini_api_key",
	"llm.groq_api_key",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.groq_model", "llama-3.1-70b-versatile")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("pipeline.quality_threshold", 75)
	v.SetDefault("pipeline.max_retries", 2)
	v.SetDefault("pipeline.stage_timeout_seconds", 45)
	v.SetDefault("pipeline.run_timeout_seconds", 180)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// A config file is optional; the environment alone is enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
