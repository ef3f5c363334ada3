// Package config loads and validates application configuration.
package config

import "time"

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"         validate:"required,min=32"`
	TokenLifetime    time.Duration `mapstructure:"token_lifetime"`
	BcryptCost       int           `mapstructure:"bcrypt_cost"        validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains settings for the AI annotation collaborator. The whole
// group is optional: with no API key the annotator is simply not wired and
// every annotation field stays empty.
type LLMConfig struct {
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	ModelName         string        `mapstructure:"model_name"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxRetries        int           `mapstructure:"max_retries"        validate:"omitempty,gte=0,lte=10"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"omitempty,gte=1,lte=60"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount  int           `mapstructure:"worker_count"  validate:"omitempty,gte=1,lte=32"`
	QueueSize    int           `mapstructure:"queue_size"    validate:"omitempty,gte=1"`
	StuckTaskAge time.Duration `mapstructure:"stuck_task_age"`
}
