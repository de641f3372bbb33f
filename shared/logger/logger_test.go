package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"resort/config"
	"resort/shared/constant"
	"resort/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preserve(t *testing.T) {
	t.Helper()

	logger := log.Logger
	level := zerolog.GlobalLevel()
	timeFormat := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = timeFormat
	})
}

func TestInitLogger(t *testing.T) {
	preserve(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestConfigure_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "error", want: zerolog.ErrorLevel},
		{level: "disabled", want: zerolog.Disabled},
		{level: "", want: zerolog.InfoLevel},
		{level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			preserve(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.level

			logger.ConfigureTo(cfg, &bytes.Buffer{})

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestConfigure_ProductionWritesJSON(t *testing.T) {
	preserve(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.Server.LogLevel = "info"
	cfg.App.Name = "resort"

	var buf bytes.Buffer

	logger.ConfigureTo(cfg, &buf)
	log.Info().Str("booking_id", "b-1").Msg("booking committed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "resort", line["service"])
	assert.Equal(t, "b-1", line["booking_id"])
	assert.Equal(t, "booking committed", line["message"])
	assert.Contains(t, line, "time")
}

func TestConfigure_DevelopmentKeepsConsoleOutput(t *testing.T) {
	preserve(t)

	var console bytes.Buffer
	log.Logger = zerolog.New(&console)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment

	var other bytes.Buffer

	logger.ConfigureTo(cfg, &other)
	log.Info().Msg("still here")

	assert.Empty(t, other.String())
	assert.Contains(t, console.String(), "still here")
}

func TestErrorWithStack(t *testing.T) {
	preserve(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger.ErrorWithStack(errors.New("room lock timed out"))

	assert.Contains(t, buf.String(), "room lock timed out")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
