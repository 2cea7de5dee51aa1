package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/apodata/apodata/backend-go/internal/config"
	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(config.CacheConfig{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestPreferenceStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewPreferenceStore(client, time.Hour)

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Save(ctx, "s1", map[string]string{
		"apodata_date_range": "custom",
		"apodata_start_date": "2024-01-01",
	}, nil))
	require.NoError(t, store.Save(ctx, "s1", map[string]string{
		"apodata_date_range": "this_month",
	}, []string{"apodata_start_date"}))

	got, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"apodata_date_range": "this_month"}, got)
	assert.Equal(t, time.Hour, mr.TTL("apodata:session:s1"))
}

func TestPreferenceStore_LoadFailure(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewPreferenceStore(client, 0)
	mr.Close()

	_, err := store.Load(context.Background(), "s1")
	assert.Error(t, err)
}

func TestDashboardCache(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	c := NewDashboardCache(client, 0)

	filter := domain.DashboardFilter{StartDate: "2024-03-01", EndDate: "2024-03-14"}
	_, ok, err := c.Get(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)

	dashboard := &domain.Dashboard{
		Filter: filter,
		KPI:    domain.KPI{Revenue: decimal.RequireFromString("1234.50"), Units: 42},
	}
	require.NoError(t, c.Set(ctx, filter, dashboard))

	got, ok, err := c.Get(ctx, filter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, dashboard.KPI.Revenue.Equal(got.KPI.Revenue))
	assert.Equal(t, int64(42), got.KPI.Units)

	other := filter
	other.ComparisonStartDate = "2023-03-01"
	other.ComparisonEndDate = "2023-03-14"
	_, ok, err = c.Get(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
	_, ok, err = c.Get(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoopDashboardCache(t *testing.T) {
	c := NewDashboardCache(nil, 60)
	require.NoError(t, c.Set(context.Background(), domain.DashboardFilter{}, &domain.Dashboard{}))
	_, ok, err := c.Get(context.Background(), domain.DashboardFilter{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildDashboardKey(t *testing.T) {
	a := buildDashboardKey(domain.DashboardFilter{StartDate: "2024-03-01", EndDate: "2024-03-14"})
	b := buildDashboardKey(domain.DashboardFilter{StartDate: " 2024-03-01", EndDate: "2024-03-14 "})
	c := buildDashboardKey(domain.DashboardFilter{StartDate: "2024-03-01", EndDate: "2024-03-14", TopProducts: 5})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, dashboardKeyPrefix+":")
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "redis", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}
