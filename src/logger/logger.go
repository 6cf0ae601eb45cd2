package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"redox_tutor/src/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. It writes JSON to stderr until InitLogger runs.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

var timeFormats = map[string]string{
	"rfc3339": time.RFC3339,
	"unix":    zerolog.TimeFormatUnix,
	"iso8601": "2006-01-02T15:04:05.000Z07:00",
}

// InitLogger configures the global logger from config
func InitLogger(config model.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	timeFormat, ok := timeFormats[strings.ToLower(config.TimeFormat)]
	if !ok {
		timeFormat = time.RFC3339
	}

	output, err := newWriter(config)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = timeFormat
	Logger = zerolog.New(output).With().
		Timestamp().
		Caller().
		Str("service", "redox_tutor").
		Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("format", config.Format).
		Str("output", config.Output).
		Msg("Logger initialized")
	return nil
}

// newWriter opens the configured sink and wraps it for console output
func newWriter(config model.LogConfig) (io.Writer, error) {
	var out io.Writer = os.Stdout
	switch strings.ToLower(config.Output) {
	case "stderr":
		out = os.Stderr
	case "file":
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", config.FilePath, err)
		}
		out = file
	}

	if strings.ToLower(config.Format) != "console" {
		return out, nil
	}
	// no ANSI colors in log files
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    strings.EqualFold(config.Output, "file"),
	}, nil
}

// Session returns a child logger tagged with the first 8 characters of a session token
func Session(token string) *zerolog.Logger {
	if len(token) > 8 {
		token = token[:8]
	}
	l := Logger.With().Str("session", token).Logger()
	return &l
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
