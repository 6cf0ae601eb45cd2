package src

import (
	"fmt"
	"strings"

	"redox_tutor/src/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig       model.LogConfig       `envconfig:""`
	OracleConfig    model.OracleConfig    `envconfig:""`
	TelemetryConfig model.TelemetryConfig `envconfig:""`
	SessionConfig   model.SessionConfig   `envconfig:""`
	ServerConfig    model.ServerConfig    `envconfig:""`
}

var providers = map[string]bool{
	"gemini":   true,
	"openai":   true,
	"ollama":   true,
	"deepseek": true,
	"ark":      true,
}

// LoadConfig reads .env when present, then the process environment
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	config.OracleConfig.Provider = strings.ToLower(strings.TrimSpace(config.OracleConfig.Provider))
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	if !providers[c.OracleConfig.Provider] {
		return fmt.Errorf("invalid ORACLE_PROVIDER: %q", c.OracleConfig.Provider)
	}
	if c.OracleConfig.Timeout < 0 {
		return fmt.Errorf("ORACLE_TIMEOUT must be non-negative")
	}
	if c.SessionConfig.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if strings.TrimSpace(c.SessionConfig.CookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}
	if c.TelemetryConfig.QueueSize < 1 {
		return fmt.Errorf("TELEMETRY_QUEUE_SIZE must be at least 1")
	}
	return nil
}
