package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckinCode(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode string
		wantOK   bool
	}{
		{"plain", "12_1700000000000_abc123xyz", "12_1700000000000_abc123xyz", true},
		{"trimmed", "  code-1\n", "code-1", true},
		{"empty", "", "", false},
		{"whitespace only", " \t ", "", false},
		{"at limit", strings.Repeat("a", 1000), strings.Repeat("a", 1000), true},
		{"over limit", strings.Repeat("a", 1001), strings.Repeat("a", 1001), false},
		{"multibyte counted as characters", strings.Repeat("é", 1000), strings.Repeat("é", 1000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := CheckinCode(tt.raw, 1000)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("student@college.edu"))
	assert.True(t, IsValidEmail(" a.b+c@x.co.in "))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("two words@x.com"))
	assert.False(t, IsValidEmail("a@nodot"))
	assert.False(t, IsValidEmail(""))
}

func TestStringValidation(t *testing.T) {
	assert.False(t, NewStringValidation(strings.Repeat("x", 101)).WithMaxLength(NameMaxLength).Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
}
