package display

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", FormatDate(civil.Date{Year: 2024, Month: time.March, Day: 5}))
}

func TestFormatDateString(t *testing.T) {
	tests := map[string]string{
		"2024-01-31": "31/01/2024",
		"2024-13-45": "45/13/2024",
		"2024-02-30": "30/02/2024",
		"not a date": "not a date",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatDateString(in), in)
	}
}

func TestFormatTooltip(t *testing.T) {
	assert.Equal(t, "14 mars 2024", FormatTooltip("2024-03-14"))
	assert.Equal(t, "1 août 2023", FormatTooltip("2023-08-01"))
	assert.Equal(t, "01/13/2024", FormatTooltip("2024-13-01"))
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "01/01/2024 - 31/01/2024", RangeLabel("2024-01-01", "2024-01-31"))
	assert.Equal(t, NotAvailable, RangeLabel("", ""))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "janvier", MonthName(time.January))
	assert.Equal(t, "décembre", MonthName(time.December))
	assert.Equal(t, "", MonthName(0))
}
