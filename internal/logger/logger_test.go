package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	Logger{Level: "debug", Format: "json"}.SetupWriter(&buf)

	log.Debug().Str("path", "doc.geojson").Msg("saved")
	log.Trace().Msg("hidden")

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	line := gjson.Parse(buf.String())
	assert.Equal(t, "debug", line.Get("level").String())
	assert.Equal(t, "doc.geojson", line.Get("path").String())
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetupConsoleDefaults(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	Logger{Level: "bogus", NoColor: true}.SetupWriter(&buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Info().Msg("ready")
	assert.Contains(t, buf.String(), "INF ready")
}
