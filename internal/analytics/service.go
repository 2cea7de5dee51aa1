package analytics

import (
	"context"
	"sort"

	"github.com/apodata/apodata/backend-go/internal/cache"
	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTopProducts = 10
	// DefaultMaxRangeDays is about ten years.
	DefaultMaxRangeDays = 3660
)

var (
	ErrNoPeriod     = errors.New("primary period is not resolved")
	ErrRangeTooLong = errors.New("period is too long")

	hundred = decimal.NewFromInt(100)
)

type Service struct {
	catalogue   []Product
	dashboards  cache.DashboardCache
	topProducts int
	maxDays     int
}

// NewService builds a dashboard service over catalogue. A nil cache
// disables caching. topProducts and maxDays fall back to their defaults
// when <= 0.
func NewService(catalogue []Product, dashboards cache.DashboardCache, topProducts, maxDays int) *Service {
	if dashboards == nil {
		dashboards = cache.NewNoopDashboardCache()
	}
	if topProducts <= 0 {
		topProducts = DefaultTopProducts
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	return &Service{
		catalogue:   catalogue,
		dashboards:  dashboards,
		topProducts: topProducts,
		maxDays:     maxDays,
	}
}

type productTotal struct {
	Product
	Revenue decimal.Decimal
	Units   int64
}

// Dashboard computes the KPIs of primary and, when comparison is resolved,
// their evolution against it.
func (s *Service) Dashboard(ctx context.Context, primary, comparison period.DateRange) (*domain.Dashboard, error) {
	if primary.IsZero() {
		return nil, ErrNoPeriod
	}
	if err := s.checkLength(primary); err != nil {
		return nil, err
	}
	if err := s.checkLength(comparison); err != nil {
		return nil, err
	}

	filter := domain.DashboardFilter{
		StartDate:   period.FormatForStorage(primary.Start),
		EndDate:     period.FormatForStorage(primary.End),
		TopProducts: s.topProducts,
	}
	if !comparison.IsZero() {
		filter.ComparisonStartDate = period.FormatForStorage(comparison.Start)
		filter.ComparisonEndDate = period.FormatForStorage(comparison.End)
	}

	if cached, ok, err := s.dashboards.Get(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if ok {
		return cached, nil
	}

	var current, previous []productTotal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.aggregate(gctx, primary)
		return err
	})
	if !comparison.IsZero() {
		g.Go(func() error {
			var err error
			previous, err = s.aggregate(gctx, comparison)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "aggregate sales")
	}

	dashboard := &domain.Dashboard{
		Filter:       filter,
		KPI:          buildKPI(current, previous, !comparison.IsZero()),
		Segments:     breakdown(current, previous, func(t productTotal) string { return t.Segment }),
		Laboratories: breakdown(current, previous, func(t productTotal) string { return t.Laboratory }),
		TopProducts:  s.top(current),
	}

	if err := s.dashboards.Set(ctx, filter, dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
	return dashboard, nil
}

// checkLength bounds the inclusive day count of r. Unresolved ranges pass.
func (s *Service) checkLength(r period.DateRange) error {
	if r.IsZero() {
		return nil
	}
	if days := r.Days() + 1; days > s.maxDays {
		return errors.Wrapf(ErrRangeTooLong, "%s spans %d days, max %d", r, days, s.maxDays)
	}
	return nil
}

func (s *Service) aggregate(ctx context.Context, r period.DateRange) ([]productTotal, error) {
	days := r.Dates()
	totals := make([]productTotal, 0, len(s.catalogue))
	for _, p := range s.catalogue {
		var units int64
		for _, d := range days {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			units += UnitsSold(p, d)
		}
		totals = append(totals, productTotal{
			Product: p,
			Units:   units,
			Revenue: p.UnitPrice.Mul(decimal.NewFromInt(units)),
		})
	}
	return totals, nil
}

func (s *Service) top(totals []productTotal) []domain.ProductSales {
	sorted := append([]productTotal(nil), totals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Revenue.Equal(sorted[j].Revenue) {
			return sorted[i].Revenue.GreaterThan(sorted[j].Revenue)
		}
		return sorted[i].CIP < sorted[j].CIP
	})
	return lo.Map(lo.Slice(sorted, 0, s.topProducts), func(t productTotal, _ int) domain.ProductSales {
		return domain.ProductSales{
			CIP:        t.CIP,
			Name:       t.Name,
			Laboratory: t.Laboratory,
			Segment:    t.Segment,
			Revenue:    t.Revenue,
			Units:      t.Units,
		}
	})
}

func buildKPI(current, previous []productTotal, compare bool) domain.KPI {
	revenue, units := sum(current)
	kpi := domain.KPI{
		Revenue:       revenue,
		Units:         units,
		AverageBasket: decimal.Zero,
	}
	if units > 0 {
		kpi.AverageBasket = revenue.Div(decimal.NewFromInt(units)).Round(2)
	}
	if !compare {
		return kpi
	}

	prevRevenue, prevUnits := sum(previous)
	kpi.ComparisonRevenue = &prevRevenue
	kpi.ComparisonUnits = &prevUnits
	kpi.RevenueEvolution = evolution(revenue, prevRevenue)
	kpi.UnitsEvolution = evolution(decimal.NewFromInt(units), decimal.NewFromInt(prevUnits))
	return kpi
}

func breakdown(current, previous []productTotal, key func(productTotal) string) []domain.Breakdown {
	total, _ := sum(current)
	groups := lo.GroupBy(current, key)
	var prevGroups map[string][]productTotal
	if previous != nil {
		prevGroups = lo.GroupBy(previous, key)
	}

	rows := make([]domain.Breakdown, 0, len(groups))
	for name, items := range groups {
		revenue, units := sum(items)
		row := domain.Breakdown{
			Name:    name,
			Revenue: revenue,
			Units:   units,
			Share:   decimal.Zero,
		}
		if total.IsPositive() {
			row.Share = revenue.Div(total).Mul(hundred).Round(1)
		}
		if prevGroups != nil {
			prevRevenue, _ := sum(prevGroups[name])
			row.Evolution = evolution(revenue, prevRevenue)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func sum(totals []productTotal) (decimal.Decimal, int64) {
	revenue := lo.Reduce(totals, func(acc decimal.Decimal, t productTotal, _ int) decimal.Decimal {
		return acc.Add(t.Revenue)
	}, decimal.Zero)
	units := lo.SumBy(totals, func(t productTotal) int64 { return t.Units })
	return revenue, units
}

// evolution is the change from base to current in percent, nil when base
// is zero.
func evolution(current, base decimal.Decimal) *decimal.Decimal {
	if base.IsZero() {
		return nil
	}
	e := current.Sub(base).Div(base).Mul(hundred).Round(1)
	return &e
}
