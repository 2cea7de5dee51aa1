package period

import (
	"github.com/apodata/apodata/backend-go/internal/display"
	"github.com/pkg/errors"
)

// ComparisonType says how the comparison period relates to the primary one.
type ComparisonType string

const (
	ComparisonPreviousYear     ComparisonType = "previous_year"
	ComparisonPreviousPeriod   ComparisonType = "previous_period"
	ComparisonSameLastYear     ComparisonType = "same_last_year"
	ComparisonSameLastTwoYears ComparisonType = "same_last_two_years"
	ComparisonCustom           ComparisonType = "custom"
)

// DefaultComparison is used when neither the URL nor storage carries a type.
const DefaultComparison = ComparisonPreviousYear

var comparisons = []ComparisonType{
	ComparisonPreviousYear,
	ComparisonPreviousPeriod,
	ComparisonSameLastYear,
	ComparisonSameLastTwoYears,
	ComparisonCustom,
}

var comparisonLabels = map[ComparisonType]string{
	ComparisonPreviousYear:     "Année précédente",
	ComparisonPreviousPeriod:   "Période précédente",
	ComparisonSameLastYear:     "Même période N-1",
	ComparisonSameLastTwoYears: "Même période N-2",
	ComparisonCustom:           "Personnalisé",
}

// ComparisonTypes returns every comparison type in display order.
func ComparisonTypes() []ComparisonType {
	return append([]ComparisonType(nil), comparisons...)
}

// ParseComparison returns the comparison type for a tag.
func ParseComparison(s string) (ComparisonType, error) {
	t := ComparisonType(s)
	if _, ok := comparisonLabels[t]; !ok {
		return "", errors.Wrapf(ErrUnknownComparison, "%q", s)
	}
	return t, nil
}

func (t ComparisonType) Label() string {
	return comparisonLabels[t]
}

func (t ComparisonType) String() string {
	return string(t)
}

// ResolvedComparison is a comparison type paired with its dates and label.
type ResolvedComparison struct {
	Type      ComparisonType
	Range     DateRange
	StartDate string
	EndDate   string
	Label     string
}

func (r ResolvedComparison) Resolved() bool {
	return !r.Range.IsZero()
}

// Unresolved is the comparison returned when the primary period has no dates.
func Unresolved(t ComparisonType) ResolvedComparison {
	return ResolvedComparison{Type: t, Label: display.NotAvailable}
}

// ResolveComparison derives the comparison period from the primary range.
// An unresolved primary yields Unresolved(t) and no error. Custom
// comparisons go through ResolveCustomComparison.
func ResolveComparison(t ComparisonType, primary DateRange) (ResolvedComparison, error) {
	var r DateRange
	switch t {
	case ComparisonPreviousYear, ComparisonSameLastYear:
		r = DateRange{Start: addYears(primary.Start, -1), End: addYears(primary.End, -1)}
	case ComparisonSameLastTwoYears:
		r = DateRange{Start: addYears(primary.Start, -2), End: addYears(primary.End, -2)}
	case ComparisonPreviousPeriod:
		end := primary.Start.AddDays(-1)
		r = DateRange{Start: end.AddDays(-primary.Days()), End: end}
	case ComparisonCustom:
		return ResolvedComparison{}, ErrCustomRequiresDates
	default:
		return ResolvedComparison{}, errors.Wrapf(ErrUnknownComparison, "%q", string(t))
	}

	if primary.IsZero() {
		return Unresolved(t), nil
	}
	return ResolvedComparison{
		Type:      t,
		Range:     r,
		StartDate: FormatForStorage(r.Start),
		EndDate:   FormatForStorage(r.End),
		Label:     t.Label(),
	}, nil
}

// ResolveCustomComparison builds a custom comparison from raw YYYY-MM-DD
// strings. Unparseable input leaves the range unresolved; the label is built
// from the raw strings either way.
func ResolveCustomComparison(start, end string) ResolvedComparison {
	out := ResolvedComparison{
		Type:      ComparisonCustom,
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

// Option is a selectable entry of the date picker.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the presets and comparison types with their labels.
func Options() (primary []Option, comparison []Option) {
	for _, p := range presets {
		primary = append(primary, Option{Value: string(p), Label: p.Label()})
	}
	for _, t := range comparisons {
		comparison = append(comparison, Option{Value: string(t), Label: t.Label()})
	}
	return primary, comparison
}
