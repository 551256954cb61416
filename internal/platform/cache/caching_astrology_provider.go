// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
)

// sharedFetchTimeout bounds an upstream call shared by joined callers.
// The call outlives any single caller's cancellation.
const sharedFetchTimeout = 30 * time.Second

// CachingAstrologyProvider decorates an AstrologyProvider with a cache.
// Charts and panchang for a given moment and place never change, so entries
// are kept for a long TTL. Redis is used when configured; otherwise an
// in-process cache takes its place. Concurrent identical misses share a
// single upstream call.
type CachingAstrologyProvider struct {
	inner     usecase.AstrologyProvider
	rdb       *redis.Client
	mem       *gocache.Cache
	ttl       time.Duration
	namespace string
	group     singleflight.Group
	timeout   time.Duration
}

var _ usecase.AstrologyProvider = (*CachingAstrologyProvider)(nil)

// NewCachingAstrologyProvider decorates an AstrologyProvider with caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "astrology".
// If rdb is nil, an in-process cache is used instead of Redis.
func NewCachingAstrologyProvider(rdb *redis.Client, ttl time.Duration, inner usecase.AstrologyProvider, namespace string) *CachingAstrologyProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "astrology"
	}
	c := &CachingAstrologyProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		timeout:   sharedFetchTimeout,
	}
	if rdb == nil {
		c.mem = gocache.New(ttl, 2*ttl)
	}
	return c
}

// FetchChart returns the chart markup, checking the cache first.
func (c *CachingAstrologyProvider) FetchChart(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error) {
	key := c.cacheKey("chart", at, coords)

	v, err := c.do(ctx, key, func(ctx context.Context) (any, error) {
		// 1) Check cache
		if b, ok := c.load(ctx, key); ok {
			return string(b), nil
		}
		// 2) Fallback to provider
		svg, err := c.inner.FetchChart(ctx, at, coords)
		if err != nil {
			return "", err
		}
		// 3) Store in cache (best effort)
		if svg != "" {
			c.store(ctx, key, []byte(svg))
		}
		return svg, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FetchPanchang returns the panchang, checking the cache first.
func (c *CachingAstrologyProvider) FetchPanchang(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error) {
	key := c.cacheKey("panchang", at, coords)

	v, err := c.do(ctx, key, func(ctx context.Context) (any, error) {
		if b, ok := c.load(ctx, key); ok {
			var out entity.Panchang
			if err := json.Unmarshal(b, &out); err == nil {
				return &out, nil
			}
			// Delete corrupted cache entry
			c.invalidate(ctx, key)
		}

		out, err := c.inner.FetchPanchang(ctx, at, coords)
		if err != nil {
			return nil, err
		}

		if b, err := json.Marshal(out); err == nil {
			c.store(ctx, key, b)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.Panchang), nil
}

// do runs fn once per key for all concurrent callers. fn gets a context that
// ignores the first caller's cancellation, so a client that disconnects does
// not fail the others joined on the same key; each caller still returns as
// soon as its own ctx is done.
func (c *CachingAstrologyProvider) do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *CachingAstrologyProvider) load(ctx context.Context, key string) ([]byte, bool) {
	if c.rdb == nil {
		if v, ok := c.mem.Get(key); ok {
			b, ok := v.([]byte)
			return b, ok && len(b) > 0
		}
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return b, len(b) > 0
}

func (c *CachingAstrologyProvider) store(ctx context.Context, key string, b []byte) {
	if c.rdb == nil {
		c.mem.Set(key, b, c.ttl)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *CachingAstrologyProvider) invalidate(ctx context.Context, key string) {
	if c.rdb == nil {
		c.mem.Delete(key)
		return
	}
	_ = c.rdb.Del(ctx, key).Err()
}

// cacheKey generates a cache key for a specific moment and place.
func (c *CachingAstrologyProvider) cacheKey(kind string, at time.Time, coords entity.Coordinates) string {
	return fmt.Sprintf("%s:%s:%s:%s,%s",
		c.namespace,
		kind,
		safe(at.UTC().Format(time.RFC3339)),
		strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
