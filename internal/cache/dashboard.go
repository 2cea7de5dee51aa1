package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "apodata:dashboard"
	scanBatchSize      = 100
)

type DashboardCache interface {
	Get(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error)
	Set(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a Redis-backed cache, or a noop one when client
// is nil.
func NewDashboardCache(client *redis.Client, ttlSeconds int) DashboardCache {
	if client == nil {
		return &noopDashboardCache{}
	}
	return &redisDashboardCache{
		client: client,
		ttl:    ttlOrDefault(ttlSeconds),
	}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter domain.DashboardFilter) string {
	parts := []string{
		"start=" + strings.TrimSpace(filter.StartDate),
		"end=" + strings.TrimSpace(filter.EndDate),
	}
	if filter.ComparisonStartDate != "" || filter.ComparisonEndDate != "" {
		parts = append(parts,
			"comp_start="+strings.TrimSpace(filter.ComparisonStartDate),
			"comp_end="+strings.TrimSpace(filter.ComparisonEndDate),
		)
	}
	if filter.TopProducts > 0 {
		parts = append(parts, fmt.Sprintf("top=%d", filter.TopProducts))
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(hash[:]))
}
