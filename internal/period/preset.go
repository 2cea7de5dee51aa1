package period

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/apodata/apodata/backend-go/internal/display"
	"github.com/pkg/errors"
)

// Preset names a reporting period relative to today.
type Preset string

const (
	PresetToday       Preset = "today"
	PresetThisWeek    Preset = "this_week"
	PresetThisMonth   Preset = "this_month"
	PresetLast3Months Preset = "last_3_months"
	PresetLast6Months Preset = "last_6_months"
	PresetThisYear    Preset = "this_year"
	PresetLastMonth   Preset = "last_month"
	PresetCustom      Preset = "custom"
)

// DefaultPreset is used when neither the URL nor storage carries a preset.
const DefaultPreset = PresetThisMonth

var presets = []Preset{
	PresetToday,
	PresetThisWeek,
	PresetThisMonth,
	PresetLast3Months,
	PresetLast6Months,
	PresetThisYear,
	PresetLastMonth,
	PresetCustom,
}

var presetLabels = map[Preset]string{
	PresetToday:       "Aujourd'hui",
	PresetThisWeek:    "Cette semaine",
	PresetThisMonth:   "Ce mois",
	PresetLast3Months: "3 derniers mois",
	PresetLast6Months: "6 derniers mois",
	PresetThisYear:    "Cette année",
	PresetLastMonth:   "Mois dernier",
	PresetCustom:      "Personnalisé",
}

// Presets returns every preset in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// ParsePreset returns the preset for a tag.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if _, ok := presetLabels[p]; !ok {
		return "", errors.Wrapf(ErrUnknownPreset, "%q", s)
	}
	return p, nil
}

// Label returns the fixed French label of p. Custom periods carry a computed
// label instead, see ResolvePrimary.
func (p Preset) Label() string {
	return presetLabels[p]
}

func (p Preset) String() string {
	return string(p)
}

// ResolvePreset maps a non-custom preset onto concrete dates. Every preset
// except last_month ends today: this_week, this_month and this_year are
// elapsed-to-date windows, while last_month is the full previous month.
func ResolvePreset(p Preset, today civil.Date) (DateRange, error) {
	switch p {
	case PresetToday:
		return DateRange{Start: today, End: today}, nil
	case PresetThisWeek:
		// ISO week, Monday first
		offset := (int(weekday(today)) + 6) % 7
		return DateRange{Start: today.AddDays(-offset), End: today}, nil
	case PresetThisMonth:
		return DateRange{Start: firstOfMonth(today), End: today}, nil
	case PresetLast3Months:
		return DateRange{Start: addMonths(today, -3), End: today}, nil
	case PresetLast6Months:
		return DateRange{Start: addMonths(today, -6), End: today}, nil
	case PresetThisYear:
		return DateRange{Start: civil.Date{Year: today.Year, Month: time.January, Day: 1}, End: today}, nil
	case PresetLastMonth:
		start := addMonths(firstOfMonth(today), -1)
		return DateRange{Start: start, End: firstOfMonth(today).AddDays(-1)}, nil
	case PresetCustom:
		return DateRange{}, ErrCustomRequiresDates
	default:
		return DateRange{}, errors.Wrapf(ErrUnknownPreset, "%q", string(p))
	}
}

// ResolvedPeriod is a preset paired with its dates and display label.
// StartDate and EndDate hold the wire form; for a custom period they are the
// caller's raw input even when it does not parse.
type ResolvedPeriod struct {
	Preset    Preset
	Range     DateRange
	StartDate string
	EndDate   string
	Label     string
}

// Resolved reports whether the period has concrete dates.
func (r ResolvedPeriod) Resolved() bool {
	return !r.Range.IsZero()
}

// ResolvePrimary resolves p against today. For PresetCustom, start and end
// are taken as given; input that does not parse leaves the range unresolved
// and the label falls back to a best-effort rendering of the raw strings.
// Ordering of custom dates is not checked.
func ResolvePrimary(p Preset, today civil.Date, start, end string) ResolvedPeriod {
	if p == PresetCustom {
		out := ResolvedPeriod{
			Preset:    p,
			StartDate: start,
			EndDate:   end,
			Label:     display.RangeLabel(start, end),
		}
		s, errS := ParseDate(start)
		e, errE := ParseDate(end)
		if errS == nil && errE == nil {
			out.Range = DateRange{Start: s, End: e}
		}
		return out
	}

	r, err := ResolvePreset(p, today)
	if err != nil {
		return ResolvedPeriod{Preset: p, Label: display.NotAvailable}
	}
	return ResolvedPeriod{
		Preset:    p,
		Range:     r,
		StartDate: FormatForStorage(r.Start),
		EndDate:   FormatForStorage(r.End),
		Label:     p.Label(),
	}
}
