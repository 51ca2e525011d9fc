package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/segyhp/portfolio-reporting/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	setup(config.LoggingConfig{Level: "warn", Format: "json"}, "report-api", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hidden")
	log.Warn().Str("kind", "loans").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "report-api", entry["service"])
	assert.Equal(t, "loans", entry["kind"])
	assert.Contains(t, entry, "time")
}

func TestSetup_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	setup(config.LoggingConfig{Level: "chatty", Format: "json"}, "report-api", &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	setup(config.LoggingConfig{Level: "info", Format: "console"}, "report-scheduler", &buf)

	log.Info().Msg("digest stored")

	assert.Contains(t, buf.String(), "digest stored")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetup_ContextLoggerDefaultsToGlobal(t *testing.T) {
	var buf bytes.Buffer
	setup(config.LoggingConfig{Level: "info", Format: "json"}, "report-api", &buf)

	log.Ctx(context.Background()).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}
