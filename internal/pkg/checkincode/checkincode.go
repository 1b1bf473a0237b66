// Package checkincode generates the opaque check-in codes printed on registration QR images.
package checkincode

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	individualSuffixLen = 9
	teamSuffixLen       = 6
)

// Generator builds check-in codes. Now and Random can be replaced in tests.
type Generator struct {
	Now    func() time.Time
	Random func(n int) string
}

// New returns a generator backed by the wall clock and uuid randomness
func New() *Generator {
	return &Generator{Now: time.Now, Random: RandomBase36}
}

// Individual returns "<eventID>_<unixMillis>_<9 base36 chars>"
func (g *Generator) Individual(eventID int64) string {
	return fmt.Sprintf("%d_%d_%s", eventID, g.Now().UnixMilli(), g.Random(individualSuffixLen))
}

// Team returns "<eventID>-team-<alphanumeric team name>-<unixMillis>-<6 base36 chars>"
func (g *Generator) Team(eventID int64, teamName string) string {
	return fmt.Sprintf("%d-team-%s-%d-%s", eventID, Alnum(teamName), g.Now().UnixMilli(), g.Random(teamSuffixLen))
}

// Alnum keeps only ASCII letters and digits
func Alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RandomBase36 returns n lowercase base36 characters drawn from random uuids
func RandomBase36(n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		id := uuid.New()
		for i, b := range id[:] {
			// bytes 6 and 8 carry the uuid version and variant bits;
			// 252 is the largest multiple of 36 below 256
			if i == 6 || i == 8 || b >= 252 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}
