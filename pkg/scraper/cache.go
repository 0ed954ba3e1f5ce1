package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ResponseCache stores search results per {platform}:{query} so
// repeated queries inside the TTL never hit the marketplace again.
type ResponseCache interface {
	Get(ctx context.Context, platform, query string) ([]Product, bool)
	Set(ctx context.Context, platform, query string, products []Product)
}

func cacheKey(platform, query string) string {
	sum := sha256.Sum256([]byte(platform + ":" + strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("scrape:%x", sum[:8])
}

// MemoryCache is the in-process TTL cache, always available.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, platform, query string) ([]Product, bool) {
	if v, found := c.cache.Get(cacheKey(platform, query)); found {
		return v.([]Product), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, platform, query string, products []Product) {
	c.cache.Set(cacheKey(platform, query), products, gocache.DefaultExpiration)
}

// RedisCache shares responses across instances. Every operation is
// best-effort: a Redis outage degrades to a miss, never an error.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, platform, query string) ([]Product, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(platform, query)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *RedisCache) Set(ctx context.Context, platform, query string, products []Product) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, cacheKey(platform, query), raw, c.ttl)
}

// TieredCache checks the in-process cache first and falls back to the
// shared one, refilling the local layer on a remote hit.
type TieredCache struct {
	local  ResponseCache
	shared ResponseCache
}

func NewTieredCache(local, shared ResponseCache) *TieredCache {
	return &TieredCache{local: local, shared: shared}
}

func (c *TieredCache) Get(ctx context.Context, platform, query string) ([]Product, bool) {
	if products, ok := c.local.Get(ctx, platform, query); ok {
		return products, true
	}
	if c.shared != nil {
		if products, ok := c.shared.Get(ctx, platform, query); ok {
			c.local.Set(ctx, platform, query, products)
			return products, true
		}
	}
	return nil, false
}

func (c *TieredCache) Set(ctx context.Context, platform, query string, products []Product) {
	c.local.Set(ctx, platform, query, products)
	if c.shared != nil {
		c.shared.Set(ctx, platform, query, products)
	}
}
