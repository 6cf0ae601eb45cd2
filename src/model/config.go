package model

import "time"

// ----------------------------------------------------
// ================ Config ================
// LogConfig controls the global zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // console, json
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`  // stdout, stderr, file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/redox_tutor.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// OracleConfig selects and tunes the LLM that analyzes equations
type OracleConfig struct {
	Provider    string        `envconfig:"ORACLE_PROVIDER" default:"gemini"`
	Model       string        `envconfig:"ORACLE_MODEL"`
	APIKey      string        `envconfig:"ORACLE_API_KEY"`
	BaseURL     string        `envconfig:"ORACLE_BASE_URL"`
	MaxTokens   int           `envconfig:"ORACLE_MAX_TOKENS" default:"2048"`
	Temperature float64       `envconfig:"ORACLE_TEMPERATURE" default:"0.1"`
	Timeout     time.Duration `envconfig:"ORACLE_TIMEOUT" default:"60s"`
}

// TelemetryConfig points at the spreadsheet logging endpoint
type TelemetryConfig struct {
	URL       string        `envconfig:"TELEMETRY_URL"`
	Timeout   time.Duration `envconfig:"TELEMETRY_TIMEOUT" default:"10s"`
	QueueSize int           `envconfig:"TELEMETRY_QUEUE_SIZE" default:"64"`
}

// SessionConfig holds session storage settings
type SessionConfig struct {
	RedisURL        string        `envconfig:"REDIS_URL"`
	RedisMaxRetries int           `envconfig:"REDIS_MAX_RETRIES" default:"5"`
	TTL             time.Duration `envconfig:"SESSION_TTL" default:"60m"`
	CookieName      string        `envconfig:"SESSION_COOKIE" default:"redox_session"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr     string `envconfig:"METRICS_ADDR" default:":9090"`
	MetricsPath     string `envconfig:"METRICS_PATH" default:"/metrics"`
	DefaultEquation string `envconfig:"DEFAULT_EQUATION" default:"Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O"`
	MessagesPath    string `envconfig:"MESSAGES_PATH"`
}
