// Package cache provides caching implementations for repository and
// usecase interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_analysis/internal/feature/indicators/domain/entity"
)

// IndicatorComputer is the computation interface this decorator wraps.
type IndicatorComputer interface {
	Compute(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error)
}

// CachingIndicatorComputer decorates an IndicatorComputer with Redis
// caching. It implements the decorator pattern, transparently adding
// caching without modifying the underlying computer. Only successful
// results are cached; errors always pass through.
type CachingIndicatorComputer struct {
	inner     IndicatorComputer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingIndicatorComputer decorates an IndicatorComputer with Redis
// caching. If ttl is 0, it defaults to 15 minutes. If namespace is
// empty, it uses "indicators".
func NewCachingIndicatorComputer(rdb *redis.Client, ttl time.Duration, inner IndicatorComputer, namespace string) *CachingIndicatorComputer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "indicators"
	}
	return &CachingIndicatorComputer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Compute returns the cached result when present, otherwise computes and
// stores it (best effort).
func (c *CachingIndicatorComputer) Compute(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Compute(ctx, ticker, p, n, rfAnnual)
	}

	key := c.cacheKey(ticker, p, n, rfAnnual)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.IndicatorResult
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to computation
	out, err := c.inner.Compute(ctx, ticker, p, n, rfAnnual)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific computation.
func (c *CachingIndicatorComputer) cacheKey(ticker string, p float64, n int, rfAnnual float64) string {
	return fmt.Sprintf("%s:%s:%g:%d:%g",
		c.namespace,
		safe(strings.ToUpper(ticker)),
		p,
		n,
		rfAnnual,
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
