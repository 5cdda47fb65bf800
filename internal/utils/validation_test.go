package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "12:00", "23:59"}
	for _, s := range valid {
		assert.Truef(t, ValidTimeOfDay(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "24:00", "12:60", "9:30", "12:5", "12-30", "12:30:00", "noon"}
	for _, s := range invalid {
		assert.Falsef(t, ValidTimeOfDay(s), "expected %q to be invalid", s)
	}
}

func TestParseDateOnly(t *testing.T) {
	d, err := ParseDateOnly("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 6, int(d.Month()))
	assert.Equal(t, 15, d.Day())

	for _, s := range []string{"", "15-06-2025", "2025/06/15", "2025-06-15T10:00:00Z"} {
		_, err := ParseDateOnly(s)
		assert.Errorf(t, err, "expected %q to fail", s)
	}
}
