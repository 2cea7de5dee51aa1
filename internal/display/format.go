// Package display renders dates and period labels for the dashboard. The
// locale is fixed to French.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// NotAvailable is shown in place of a period that could not be resolved.
const NotAvailable = "N/A"

const rangeSeparator = " - "

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders d as DD/MM/YYYY.
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// FormatDateString renders a YYYY-MM-DD string as DD/MM/YYYY. Input that does
// not parse is split on '-' and its components reversed as-is.
func FormatDateString(s string) string {
	if d, ok := parse(s); ok {
		return FormatDate(d)
	}
	return naiveSplit(s)
}

// FormatTooltip renders a YYYY-MM-DD string in long form, e.g. "14 mars 2024".
func FormatTooltip(s string) string {
	d, ok := parse(s)
	if !ok {
		return naiveSplit(s)
	}
	return fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month), d.Year)
}

// MonthName returns the lowercase French name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return frenchMonths[m-1]
}

// RangeLabel renders "start - end" from two YYYY-MM-DD strings. Two empty
// inputs yield NotAvailable.
func RangeLabel(start, end string) string {
	if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
		return NotAvailable
	}
	return FormatDateString(start) + rangeSeparator + FormatDateString(end)
}

func parse(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len("2006-01-02") {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

func naiveSplit(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	for _, p := range parts {
		// keep the raw text when a component is not numeric
		if _, err := strconv.Atoi(p); err != nil {
			return s
		}
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
