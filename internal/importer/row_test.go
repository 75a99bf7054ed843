package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, ok := parseDate("2026-08-03")
	require.True(t, ok)
	assert.Equal(t, "2026-08-03", parsed.Format("2006-01-02"))

	_, ok = parseDate("03/08/2026")
	assert.False(t, ok)

	_, ok = parseDate("")
	assert.False(t, ok)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"09:00", strPtr("09:00:00")},
		{"09:00:30", strPtr("09:00:30")},
		{" 17:30 ", strPtr("17:30:00")},
		{"--", nil},
		{"", nil},
		{"25:00", nil},
		{"soon", nil},
	}

	for _, tt := range tests {
		got := parseClock(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
		} else {
			require.NotNil(t, got, "input %q", tt.in)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"8:30", intPtr(510)},
		{"8:30:45", intPtr(510)},
		{"0:05", intPtr(5)},
		{"12:00", intPtr(720)},
		{"--", nil},
		{"", nil},
		{"8", nil},
		{"8:75", nil},
		{"-1:30", nil},
	}

	for _, tt := range tests {
		got := parseDurationMinutes(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
		} else {
			require.NotNil(t, got, "input %q", tt.in)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
