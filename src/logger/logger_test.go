package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"redox_tutor/src/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	err := InitLogger(model.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	previous := Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		Logger = previous
		zerolog.SetGlobalLevel(level)
	})

	path := filepath.Join(t.TempDir(), "logs", "tutor.log")
	require.NoError(t, InitLogger(model.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path}))
	Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"service":"redox_tutor"`)
}

func TestInitLoggerConsoleFileHasNoColors(t *testing.T) {
	previous := Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		Logger = previous
		zerolog.SetGlobalLevel(level)
	})

	timeFormat := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = timeFormat })

	path := filepath.Join(t.TempDir(), "console.log")
	require.NoError(t, InitLogger(model.LogConfig{Level: "debug", Format: "console", Output: "file", FilePath: path, TimeFormat: "unix"}))
	Warn().Str("step", "step2").Msg("plain text")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plain text")
	assert.Contains(t, string(data), "step=step2")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestSessionTagsTokenPrefix(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	var buf bytes.Buffer
	Logger = zerolog.New(&buf)
	Session("0123456789abcdef").Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"session":"01234567"`)

	buf.Reset()
	Session("abc").Info().Msg("short")
	assert.Contains(t, buf.String(), `"session":"abc"`)
}
