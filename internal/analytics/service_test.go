package analytics

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) period.DateRange {
	t.Helper()
	r, err := period.ParseRange(start, end)
	require.NoError(t, err)
	return r
}

type memoryDashboardCache struct {
	items map[domain.DashboardFilter]*domain.Dashboard
	gets  int
}

func (m *memoryDashboardCache) Get(_ context.Context, f domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	m.gets++
	d, ok := m.items[f]
	return d, ok, nil
}

func (m *memoryDashboardCache) Set(_ context.Context, f domain.DashboardFilter, d *domain.Dashboard) error {
	m.items[f] = d
	return nil
}

func (m *memoryDashboardCache) InvalidateAll(context.Context) error {
	m.items = map[domain.DashboardFilter]*domain.Dashboard{}
	return nil
}

func TestUnitsSold_Deterministic(t *testing.T) {
	p := DefaultCatalogue()[0]
	d := civil.Date{Year: 2024, Month: 3, Day: 14}

	first := UnitsSold(p, d)
	assert.Equal(t, first, UnitsSold(p, d))
	assert.GreaterOrEqual(t, first, int64(0))
	assert.LessOrEqual(t, first, int64(p.MaxDaily))
	assert.Zero(t, UnitsSold(Product{CIP: "x"}, d))
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc := NewService(DefaultCatalogue(), nil, 5, 0)
	primary := mustRange(t, "2024-03-01", "2024-03-14")

	got, err := svc.Dashboard(ctx, primary, period.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", got.Filter.StartDate)
	assert.Equal(t, "2024-03-14", got.Filter.EndDate)
	assert.Empty(t, got.Filter.ComparisonStartDate)
	assert.True(t, got.KPI.Revenue.IsPositive())
	assert.Nil(t, got.KPI.RevenueEvolution)
	assert.Nil(t, got.KPI.ComparisonRevenue)
	assert.Len(t, got.TopProducts, 5)
	assert.Len(t, got.Segments, 5)

	share := decimal.Zero
	for i, row := range got.Segments {
		share = share.Add(row.Share)
		assert.Nil(t, row.Evolution)
		if i > 0 {
			assert.True(t, got.Segments[i-1].Revenue.GreaterThanOrEqual(row.Revenue))
		}
	}
	assert.InDelta(t, 100, share.InexactFloat64(), 1)

	for i := 1; i < len(got.TopProducts); i++ {
		assert.True(t, got.TopProducts[i-1].Revenue.GreaterThanOrEqual(got.TopProducts[i].Revenue))
	}

	again, err := svc.Dashboard(ctx, primary, period.DateRange{})
	require.NoError(t, err)
	assert.True(t, got.KPI.Revenue.Equal(again.KPI.Revenue))
	assert.Equal(t, got.KPI.Units, again.KPI.Units)
}

func TestService_DashboardComparison(t *testing.T) {
	svc := NewService(DefaultCatalogue(), nil, 0, 0)
	primary := mustRange(t, "2024-03-01", "2024-03-14")

	got, err := svc.Dashboard(context.Background(), primary, primary)
	require.NoError(t, err)

	require.NotNil(t, got.KPI.ComparisonRevenue)
	require.NotNil(t, got.KPI.RevenueEvolution)
	require.NotNil(t, got.KPI.UnitsEvolution)
	assert.True(t, got.KPI.ComparisonRevenue.Equal(got.KPI.Revenue))
	assert.True(t, got.KPI.RevenueEvolution.IsZero())
	assert.Equal(t, "2024-03-01", got.Filter.ComparisonStartDate)
	for _, row := range got.Laboratories {
		require.NotNil(t, row.Evolution)
		assert.True(t, row.Evolution.IsZero())
	}
	assert.Len(t, got.TopProducts, len(DefaultCatalogue()))
}

func TestService_DashboardUsesCache(t *testing.T) {
	c := &memoryDashboardCache{items: map[domain.DashboardFilter]*domain.Dashboard{}}
	svc := NewService(DefaultCatalogue(), c, 3, 0)
	primary := mustRange(t, "2024-02-01", "2024-02-29")

	first, err := svc.Dashboard(context.Background(), primary, period.DateRange{})
	require.NoError(t, err)
	assert.Len(t, c.items, 1)

	second, err := svc.Dashboard(context.Background(), primary, period.DateRange{})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, c.gets)
}

func TestService_DashboardErrors(t *testing.T) {
	svc := NewService(DefaultCatalogue(), nil, 0, 0)

	_, err := svc.Dashboard(context.Background(), period.DateRange{}, period.DateRange{})
	assert.ErrorIs(t, err, ErrNoPeriod)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Dashboard(ctx, mustRange(t, "2024-01-01", "2024-01-31"), period.DateRange{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvolution(t *testing.T) {
	assert.Nil(t, evolution(decimal.NewFromInt(10), decimal.Zero))

	e := evolution(decimal.NewFromInt(150), decimal.NewFromInt(100))
	require.NotNil(t, e)
	assert.Equal(t, "50", e.String())

	e = evolution(decimal.NewFromInt(90), decimal.NewFromInt(120))
	require.NotNil(t, e)
	assert.Equal(t, "-25", e.String())
}

func TestService_DashboardRangeLimit(t *testing.T) {
	svc := NewService(DefaultCatalogue(), nil, 0, 366)

	tests := []struct {
		name       string
		primary    period.DateRange
		comparison period.DateRange
		wantErr    bool
	}{
		{name: "leap year fits", primary: mustRange(t, "2024-01-01", "2024-12-31")},
		{name: "one day over", primary: mustRange(t, "2024-01-01", "2025-01-01"), wantErr: true},
		{name: "whole calendar", primary: mustRange(t, "0001-01-01", "9999-12-31"), wantErr: true},
		{
			name:       "comparison too long",
			primary:    mustRange(t, "2024-03-01", "2024-03-14"),
			comparison: mustRange(t, "2020-01-01", "2024-01-01"),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Dashboard(context.Background(), tt.primary, tt.comparison)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRangeTooLong)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_DashboardDefaultRangeLimit(t *testing.T) {
	svc := NewService(DefaultCatalogue(), nil, 0, 0)

	_, err := svc.Dashboard(context.Background(), mustRange(t, "2000-01-01", "2024-12-31"), period.DateRange{})
	assert.ErrorIs(t, err, ErrRangeTooLong)
	assert.Equal(t, DefaultMaxRangeDays, svc.maxDays)
}
