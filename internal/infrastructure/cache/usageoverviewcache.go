package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

const (
	usageOverviewKeyPrefix = "authvital:usage_overview:"
	usageOverviewJitterSec = 10
)

// CachedSubscriptionUsage is a single subscription row in the cached overview
type CachedSubscriptionUsage struct {
	SubscriptionID    string `json:"subscription_id"`
	LicenseTypeID     string `json:"license_type_id"`
	LicenseTypeName   string `json:"license_type_name"`
	Status            string `json:"status"`
	QuantityPurchased int    `json:"quantity_purchased"`
	QuantityAssigned  int    `json:"quantity_assigned"`
	SeatsAvailable    int    `json:"seats_available"`
}

// CachedApplicationUsage groups subscription usage per application
type CachedApplicationUsage struct {
	ApplicationID   string                    `json:"application_id"`
	ApplicationName string                    `json:"application_name"`
	LicensingMode   string                    `json:"licensing_mode"`
	Subscriptions   []CachedSubscriptionUsage `json:"subscriptions"`
}

// CachedUsageOverview is the per-tenant usage summary kept in Redis
type CachedUsageOverview struct {
	TenantID     string                   `json:"tenant_id"`
	Applications []CachedApplicationUsage `json:"applications"`
	CachedAt     int64                    `json:"cached_at"`
}

// UsageOverviewCache caches seat usage summaries to keep the dashboard
// endpoint off the primary database
type UsageOverviewCache interface {
	Get(ctx context.Context, tenantSID string) (*CachedUsageOverview, error)
	Set(ctx context.Context, overview *CachedUsageOverview) error
	Invalidate(ctx context.Context, tenantSID string) error
}

// RedisUsageOverviewCache implements UsageOverviewCache using Redis
type RedisUsageOverviewCache struct {
	client  *redis.Client
	baseTTL time.Duration
	logger  logger.Interface
}

// NewRedisUsageOverviewCache creates a new Redis-based usage overview cache
func NewRedisUsageOverviewCache(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisUsageOverviewCache {
	return &RedisUsageOverviewCache{
		client:  client,
		baseTTL: ttl,
		logger:  log,
	}
}

func usageOverviewKey(tenantSID string) string {
	return usageOverviewKeyPrefix + tenantSID
}

// Get returns the cached overview, or nil on a miss
func (c *RedisUsageOverviewCache) Get(ctx context.Context, tenantSID string) (*CachedUsageOverview, error) {
	data, err := c.client.Get(ctx, usageOverviewKey(tenantSID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usage overview from cache: %w", err)
	}

	var overview CachedUsageOverview
	if err := json.Unmarshal(data, &overview); err != nil {
		c.logger.Warnw("corrupt usage overview cache entry, dropping",
			"tenant_id", tenantSID)
		_ = c.client.Del(ctx, usageOverviewKey(tenantSID)).Err()
		return nil, nil
	}

	return &overview, nil
}

// Set stores the overview with jittered TTL to spread expirations
func (c *RedisUsageOverviewCache) Set(ctx context.Context, overview *CachedUsageOverview) error {
	data, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("failed to marshal usage overview: %w", err)
	}

	ttl := c.baseTTL + time.Duration(rand.IntN(usageOverviewJitterSec))*time.Second
	if err := c.client.Set(ctx, usageOverviewKey(overview.TenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache usage overview: %w", err)
	}

	return nil
}

// Invalidate drops the cached overview after any seat-count mutation
func (c *RedisUsageOverviewCache) Invalidate(ctx context.Context, tenantSID string) error {
	if err := c.client.Del(ctx, usageOverviewKey(tenantSID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate usage overview cache: %w", err)
	}
	return nil
}
