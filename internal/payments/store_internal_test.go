package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEpochSecondsRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		// Fractional milliseconds like .123 are inexact in float64 and came
		// back one millisecond early under plain truncation.
		time.Date(2026, 8, 30, 12, 0, 0, 123_000_000, time.UTC),
		time.Date(2026, 8, 30, 12, 0, 0, 1_000_000, time.UTC),
		time.Date(2026, 8, 30, 12, 0, 0, 999_000_000, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 23, 59, 59, 789_000_000, time.UTC),
	}

	for _, want := range cases {
		got := timeFromEpochSeconds(epochSeconds(want))
		assert.True(t, want.Equal(got), "round trip of %v gave %v", want, got)
	}
}
