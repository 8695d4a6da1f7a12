package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"date only", "2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"naive date time", "2025-03-01T10:30:00", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"naive without seconds", "2025-03-01T10:30", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"space separator", "2025-03-01 10:30:15", time.Date(2025, 3, 1, 10, 30, 15, 0, time.UTC)},
		{"fractional seconds", "2025-03-01T10:30:15.250", time.Date(2025, 3, 1, 10, 30, 15, 250000000, time.UTC)},
		{"zulu", "2025-03-01T10:30:00Z", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"offset is normalized", "2025-03-01T12:30:00+02:00", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"surrounding space", "  2025-03-01  ", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2025-13-01", "01/03/2025", "2025-03-01T25:00:00"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}
