package session

import (
	"net/url"

	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/rs/zerolog/log"
)

// Persisted storage keys.
const (
	KeyDateRange              = "apodata_date_range"
	KeyStartDate              = "apodata_start_date"
	KeyEndDate                = "apodata_end_date"
	KeyDisplayLabel           = "apodata_display_label"
	KeyComparisonRange        = "apodata_comparison_range"
	KeyComparisonStartDate    = "apodata_comparison_start_date"
	KeyComparisonEndDate      = "apodata_comparison_end_date"
	KeyComparisonDisplayLabel = "apodata_comparison_display_label"
)

// URL query parameters.
const (
	ParamRange         = "range"
	ParamStartDate     = "startDate"
	ParamEndDate       = "endDate"
	ParamCompRange     = "compRange"
	ParamCompStartDate = "compStartDate"
	ParamCompEndDate   = "compEndDate"
)

type primarySelection struct {
	preset    period.Preset
	startDate string
	endDate   string
}

type comparisonSelection struct {
	typ       period.ComparisonType
	startDate string
	endDate   string
}

// lookup abstracts url.Values and storage maps.
type lookup func(key string) string

func queryLookup(q url.Values) lookup {
	return func(key string) string { return q.Get(key) }
}

func mapLookup(m map[string]string) lookup {
	return func(key string) string { return m[key] }
}

func readPrimary(get lookup, rangeKey, startKey, endKey, source string) (primarySelection, bool) {
	raw := get(rangeKey)
	if raw == "" {
		return primarySelection{}, false
	}
	p, err := period.ParsePreset(raw)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("period: ignoring primary range")
		return primarySelection{}, false
	}
	sel := primarySelection{preset: p}
	if p == period.PresetCustom {
		sel.startDate = get(startKey)
		sel.endDate = get(endKey)
	}
	return sel, true
}

func readComparison(get lookup, rangeKey, startKey, endKey, source string) (comparisonSelection, bool) {
	raw := get(rangeKey)
	if raw == "" {
		return comparisonSelection{}, false
	}
	t, err := period.ParseComparison(raw)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("period: ignoring comparison range")
		return comparisonSelection{}, false
	}
	sel := comparisonSelection{typ: t}
	if t == period.ComparisonCustom {
		sel.startDate = get(startKey)
		sel.endDate = get(endKey)
	}
	return sel, true
}

func primaryFromQuery(q url.Values) (primarySelection, bool) {
	return readPrimary(queryLookup(q), ParamRange, ParamStartDate, ParamEndDate, "url")
}

func comparisonFromQuery(q url.Values) (comparisonSelection, bool) {
	return readComparison(queryLookup(q), ParamCompRange, ParamCompStartDate, ParamCompEndDate, "url")
}

func primaryFromStorage(m map[string]string) (primarySelection, bool) {
	return readPrimary(mapLookup(m), KeyDateRange, KeyStartDate, KeyEndDate, "storage")
}

func comparisonFromStorage(m map[string]string) (comparisonSelection, bool) {
	return readComparison(mapLookup(m), KeyComparisonRange, KeyComparisonStartDate, KeyComparisonEndDate, "storage")
}

// writes collects one storage rewrite.
type writes struct {
	set   map[string]string
	clear []string
}

func newWrites() *writes {
	return &writes{set: make(map[string]string)}
}

func (w *writes) primary(p period.ResolvedPeriod) {
	w.set[KeyDateRange] = string(p.Preset)
	w.set[KeyDisplayLabel] = p.Label
	if p.Preset == period.PresetCustom {
		w.set[KeyStartDate] = p.StartDate
		w.set[KeyEndDate] = p.EndDate
		return
	}
	w.clear = append(w.clear, KeyStartDate, KeyEndDate)
}

func (w *writes) comparison(c period.ResolvedComparison) {
	w.set[KeyComparisonRange] = string(c.Type)
	w.set[KeyComparisonDisplayLabel] = c.Label
	if c.Type == period.ComparisonCustom {
		w.set[KeyComparisonStartDate] = c.StartDate
		w.set[KeyComparisonEndDate] = c.EndDate
		return
	}
	w.clear = append(w.clear, KeyComparisonStartDate, KeyComparisonEndDate)
}

func writePrimaryParams(q url.Values, p period.ResolvedPeriod) {
	q.Set(ParamRange, string(p.Preset))
	if p.Preset == period.PresetCustom {
		q.Set(ParamStartDate, p.StartDate)
		q.Set(ParamEndDate, p.EndDate)
		return
	}
	q.Del(ParamStartDate)
	q.Del(ParamEndDate)
}

func writeComparisonParams(q url.Values, c period.ResolvedComparison) {
	q.Set(ParamCompRange, string(c.Type))
	if c.Type == period.ComparisonCustom {
		q.Set(ParamCompStartDate, c.StartDate)
		q.Set(ParamCompEndDate, c.EndDate)
		return
	}
	q.Del(ParamCompStartDate)
	q.Del(ParamCompEndDate)
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
