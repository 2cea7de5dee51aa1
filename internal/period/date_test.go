package period

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), d)

	for _, bad := range []string{"", "2024-2-29", "2023-02-29", "2024-13-01", "24-02-01", "2024-02-01T00:00:00Z", "2024/02/01", " 2024-02-01"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseDate(bad)
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
		})
	}
}

func TestFormatForStorage_RoundTrip(t *testing.T) {
	for d := date(2023, time.December, 25); !d.After(date(2025, time.March, 10)); d = d.AddDays(1) {
		s := FormatForStorage(d)
		require.Len(t, s, 10)
		got, err := ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	assert.Equal(t, "", FormatForStorage(civil.Date{}))
}

func TestToday(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on March 31 is already April 1 in Paris
	now := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2024, time.April, 1), Today(now, paris))
	assert.Equal(t, date(2024, time.March, 31), Today(now, time.UTC))
	assert.Equal(t, date(2024, time.March, 31), Today(now, nil))
}

func TestNewDateRange(t *testing.T) {
	_, err := NewDateRange(date(2024, time.March, 2), date(2024, time.March, 1))
	assert.ErrorIs(t, err, ErrInvertedRange)

	r, err := NewDateRange(date(2024, time.March, 1), date(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Days())
	assert.Len(t, r.Dates(), 1)
}

func TestDateRange(t *testing.T) {
	r, err := ParseRange("2024-02-27", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Days())
	assert.Len(t, r.Dates(), 5)
	assert.Equal(t, date(2024, time.February, 29), r.Dates()[2])
	assert.Equal(t, "[2024-02-27, 2024-03-02]", r.String())

	assert.True(t, DateRange{}.IsZero())
	assert.Nil(t, DateRange{}.Dates())
}

func TestAddYears(t *testing.T) {
	assert.Equal(t, date(2023, time.February, 28), addYears(date(2024, time.February, 29), -1))
	assert.Equal(t, date(2020, time.February, 29), addYears(date(2024, time.February, 29), -4))
	assert.Equal(t, date(2022, time.March, 14), addYears(date(2024, time.March, 14), -2))
}
