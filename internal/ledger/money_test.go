package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

func TestMonthsElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		asOf     time.Time
		expected int64
	}{
		{
			name:     "same day counts as one month",
			asOf:     start,
			expected: 1,
		},
		{
			name:     "next day still one month",
			asOf:     start.AddDate(0, 0, 1),
			expected: 1,
		},
		{
			name:     "day 30 is the last day of month one",
			asOf:     start.AddDate(0, 0, 30),
			expected: 1,
		},
		{
			name:     "day 31 rolls into month two",
			asOf:     start.AddDate(0, 0, 31),
			expected: 2,
		},
		{
			name:     "mid second month",
			asOf:     start.AddDate(0, 0, 45),
			expected: 2,
		},
		{
			name:     "day 61 rolls into month three",
			asOf:     start.AddDate(0, 0, 61),
			expected: 3,
		},
		{
			name:     "a year is thirteen 30-day months",
			asOf:     start.AddDate(0, 0, 365),
			expected: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months, err := MonthsElapsed(start, tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, months)
		})
	}
}

func TestMonthsElapsed_BeforeStart(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := MonthsElapsed(start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, customError.ErrInvalidDateRange)
}

func TestMonthsElapsed_NonDecreasing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var prev int64
	for day := 0; day <= 120; day++ {
		months, err := MonthsElapsed(start, start.AddDate(0, 0, day))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, months, prev, "months decreased at day %d", day)
		prev = months
	}
}

func TestRupeeConversion(t *testing.T) {
	assert.True(t, ToRupees(250).Equal(decimal.RequireFromString("2.50")))
	assert.True(t, ToRupees(0).Equal(decimal.Zero))

	assert.Equal(t, int64(10000), FromRupees(decimal.NewFromInt(100)))

	// Half a paisa rounds up at the display boundary.
	assert.Equal(t, int64(1235), FromRupees(decimal.RequireFromString("12.345")))
}
