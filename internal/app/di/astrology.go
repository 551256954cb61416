// Package di はアプリケーションの構成要素を組み立てるファクトリを提供します。
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"soulbuddy_backend/internal/feature/horoscope/usecase"
	"soulbuddy_backend/internal/platform/cache"
	"soulbuddy_backend/internal/platform/externalapi/prokerala"
	infrahttp "soulbuddy_backend/internal/platform/http"
	"soulbuddy_backend/internal/shared/ratelimiter"
)

// NewAstrologyProvider はProkeralaクライアントをキャッシュでラップしたAstrologyProviderを生成します。
// rdbがnilの場合はプロセス内キャッシュを使用します。
func NewAstrologyProvider(rdb *redis.Client) usecase.AstrologyProvider {
	cfg := prokerala.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientOptions{
		Timeout:             cfg.Timeout,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
	})
	tokens := prokerala.NewTokenSource(cfg, httpClient, time.Now)
	limiter := ratelimiter.NewRateLimiter(cfg.RatePerMinute, time.Minute)
	client := prokerala.NewProkeralaClient(cfg, httpClient, tokens, limiter)
	return cache.NewCachingAstrologyProvider(rdb, cache.LoadTTL(), client, "astrology")
}
