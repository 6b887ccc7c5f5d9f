package hdfschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormats(t *testing.T) {
	tests := []struct {
		format string
		value  string
		valid  bool
	}{
		{"date-time", "2024-06-01T12:30:00Z", true},
		{"date-time", "2024-06-01 12:30:00", false},
		{"date", "2024-06-01", true},
		{"date", "2024-13-01", false},
		{"time", "23:59:60Z", true},
		{"time", "12:00:60Z", false},
		{"email", "observer@example.org", true},
		{"email", "not-an-email", false},
		{"hostname", "telescope-01.example.org", true},
		{"hostname", "-leading.example.org", false},
		{"ipv4", "192.168.0.1", true},
		{"ipv4", "192.168.0.256", false},
		{"ipv4", "01.2.3.4", false},
		{"ipv6", "2001:db8::1", true},
		{"ipv6", "192.168.0.1", false},
		{"uri", "https://example.org/data", true},
		{"uri", "/relative/path", false},
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", true},
		{"uuid", "123e4567-e89b-12d3-a456", false},
		{"regex", "^sensor_[0-9]+$", true},
		{"regex", "(unclosed", false},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.value, func(t *testing.T) {
			validate := Formats[tt.format]
			assert.NotNil(t, validate)
			assert.Equal(t, tt.valid, validate(tt.value))
		})
	}
}

func TestFormatsIgnoreNonStrings(t *testing.T) {
	for name, validate := range Formats {
		assert.True(t, validate(42), "format %s must ignore non-strings", name)
	}
}
