// Package config provides application configuration management.
// Configuration is loaded from environment variables following
// 12-factor principles. The listening port is fixed by the API
// contract and is not configurable.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Database (MongoDB)
	MongoURL string `env:"MONGO_URL,required"`
	MongoDB  string `env:"MONGO_DB" envDefault:"bookshelf"`

	// Cache (Redis); empty disables the book cache
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Logging. An empty LOG_FORMAT picks a format per environment,
	// see ResolvedLogFormat.
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:""`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Dangling reference reconciler
	ReconcileEnabled  bool          `env:"RECONCILE_ENABLED" envDefault:"true"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"5m"`

	// CORS configuration
	// Comma-separated list of allowed origins
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ResolvedLogFormat returns the log output format. An explicit
// LOG_FORMAT wins; otherwise production logs JSON and everything else
// logs text.
func (c *Config) ResolvedLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.IsProduction() {
		return "json"
	}
	return "text"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into
// a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
