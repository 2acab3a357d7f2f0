package payments_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payflow/internal/payments"
)

func TestParseTimeBound(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"empty is open-ended", "", nil},
		{"garbage is open-ended", "not-a-date", nil},
		{"partial date is open-ended", "2025-01", nil},
		{
			"millisecond epoch",
			"1700000000000",
			ptr(time.UnixMilli(1700000000000).UTC()),
		},
		{
			"iso with milliseconds and zone",
			"2025-01-02T03:04:05.123Z",
			ptr(time.Date(2025, 1, 2, 3, 4, 5, 123_000_000, time.UTC)),
		},
		{
			"iso without zone is utc",
			"2025-01-02T03:04:05",
			ptr(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
		{
			"iso with milliseconds without zone",
			"2025-01-02T03:04:05.500",
			ptr(time.Date(2025, 1, 2, 3, 4, 5, 500_000_000, time.UTC)),
		},
		{
			"offset form normalized to utc",
			"2025-01-02T05:04:05+02:00",
			ptr(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payments.ParseTimeBound(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "want %v, got %v", tc.want, got)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
