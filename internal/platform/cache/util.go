package cache

import (
	"log/slog"
	"os"
	"time"
)

// DefaultTTL はチャートキャッシュの既定の有効期間です。
const DefaultTTL = 24 * time.Hour

// LoadTTL は環境変数CHART_CACHE_TTL（例: "12h"）からキャッシュ有効期間を読み込みます。
// 未設定または不正な値の場合はDefaultTTLを返します。
func LoadTTL() time.Duration {
	v := os.Getenv("CHART_CACHE_TTL")
	if v == "" {
		return DefaultTTL
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid CHART_CACHE_TTL, using default", "value", v, "default", DefaultTTL)
		return DefaultTTL
	}
	return d
}
