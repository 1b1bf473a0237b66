package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatIn renders t in loc, or missing when t is nil or zero
func FormatIn(t *time.Time, loc *time.Location, layout, missing string) string {
	if t == nil || t.IsZero() {
		return missing
	}
	return t.In(loc).Format(layout)
}
