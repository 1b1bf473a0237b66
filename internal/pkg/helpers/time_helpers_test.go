package helpers

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestFormatIn(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := time.Date(2025, 3, 14, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-15 00:15", FormatIn(&at, kolkata, "2006-01-02 15:04", "N/A"))
	assert.Equal(t, "N/A", FormatIn(nil, kolkata, "2006-01-02", "N/A"))

	var zero time.Time
	assert.Equal(t, "-", FormatIn(&zero, kolkata, "2006-01-02", "-"))
}
