package period

import (
	"regexp"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
)

// StorageLayout is the canonical wire form of a calendar date.
const StorageLayout = "2006-01-02"

var (
	// ErrInvalidDateFormat is returned when a string is not a well-formed YYYY-MM-DD date.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvertedRange is returned when a range ends before it starts.
	ErrInvertedRange = errors.New("invalid range: end before start")

	// ErrCustomRequiresDates is returned when a custom period is resolved without explicit dates.
	ErrCustomRequiresDates = errors.New("custom period requires explicit dates")

	// ErrUnknownPreset is returned for a preset tag outside the closed set.
	ErrUnknownPreset = errors.New("unknown period preset")

	// ErrUnknownComparison is returned for a comparison tag outside the closed set.
	ErrUnknownComparison = errors.New("unknown comparison type")
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateRange is an inclusive span of calendar dates. The zero value is an
// unresolved range.
type DateRange struct {
	Start civil.Date `json:"start_date"`
	End   civil.Date `json:"end_date"`
}

// NewDateRange validates that start is not after end.
func NewDateRange(start, end civil.Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, errors.Wrapf(ErrInvertedRange, "%s > %s", start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

// IsZero reports whether the range is unresolved.
func (r DateRange) IsZero() bool {
	return r.Start == civil.Date{} && r.End == civil.Date{}
}

// Days returns End - Start in days, so a single-day range has length 0.
func (r DateRange) Days() int {
	return r.End.DaysSince(r.Start)
}

// Dates returns every day of the range in order.
func (r DateRange) Dates() []civil.Date {
	if r.IsZero() || r.End.Before(r.Start) {
		return nil
	}
	days := make([]civil.Date, 0, r.Days()+1)
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + FormatForStorage(r.Start) + ", " + FormatForStorage(r.End) + "]"
}

// Today returns the calendar date of now as seen in loc. A nil loc keeps
// now's own location.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc != nil {
		now = now.In(loc)
	}
	return civil.DateOf(now)
}

// FormatForStorage renders d as YYYY-MM-DD. The zero date renders empty.
func FormatForStorage(d civil.Date) string {
	if d == (civil.Date{}) {
		return ""
	}
	return d.String()
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (civil.Date, error) {
	if !isoDatePattern.MatchString(s) {
		return civil.Date{}, errors.Wrapf(ErrInvalidDateFormat, "%q", s)
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return civil.Date{}, errors.Wrapf(ErrInvalidDateFormat, "%q", s)
	}
	return d, nil
}

// ParseRange parses both endpoints and checks their order.
func ParseRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// addMonths shifts d by n calendar months, letting day overflow roll into
// the following month the way time.AddDate does.
func addMonths(d civil.Date, n int) civil.Date {
	return civil.DateOf(d.In(time.UTC).AddDate(0, n, 0))
}

// addYears shifts d by n calendar years, keeping month and day. February 29
// lands on February 28 when the target year is not a leap year.
func addYears(d civil.Date, n int) civil.Date {
	out := civil.Date{Year: d.Year + n, Month: d.Month, Day: d.Day}
	if !out.IsValid() {
		out.Day = daysIn(out.Year, out.Month)
	}
	return out
}

func firstOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
