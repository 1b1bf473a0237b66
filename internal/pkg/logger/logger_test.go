package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	defer Configure(Config{Level: "info", Format: FormatText})

	Configure(Config{Level: "warn", Format: FormatJSON, Output: &buf})

	Info().Msg("dropped")
	Warn().Str("qrCode", "evt1_dup_test").Msg("already checked in")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "evt1_dup_test", entry["qrCode"])
	assert.Equal(t, "tam", entry["service"])
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	defer Configure(Config{Level: "info", Format: FormatText})

	Configure(Config{Level: "verbose", Format: FormatJSON, Output: &bytes.Buffer{}})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
