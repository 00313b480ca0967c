package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the model provider settings. The Groq key is optional;
// when empty the service runs on Gemini alone with no fallback provider.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	GeminiModel       string `mapstructure:"gemini_model" validate:"required"`
	GroqAPIKey        string `mapstructure:"groq_api_key"`
	GroqModel         string `mapstructure:"groq_model" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"required,gte=1"`
}

// PipelineConfig contains the answer verification policy settings.
type PipelineConfig struct {
	QualityThreshold    float64 `mapstructure:"quality_threshold" validate:"required,gt=0,lte=100"`
	MaxRetries          int     `mapstructure:"max_retries" validate:"gte=0"`
	StageTimeoutSeconds int     `mapstructure:"stage_timeout_seconds" validate:"required,gt=0"`
	RunTimeoutSeconds   int     `mapstructure:"run_timeout_seconds" validate:"required,gt=0"`
}
