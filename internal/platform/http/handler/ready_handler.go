package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
)

// readyTimeout は依存先ごとの疎通確認の上限時間です。
const readyTimeout = 2 * time.Second

// Check は依存先1つの疎通確認です。
type Check func(ctx context.Context) error

// Ready は /readyz エンドポイントのハンドラーを返します。
// すべての依存先が応答すれば200、1つでも失敗すれば503を返します。
func Ready(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		res := api.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				slog.Warn("readiness check failed", "dependency", name, "error", err)
				res.Checks[name] = "unavailable"
				res.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			res.Checks[name] = "ok"
		}
		c.JSON(status, res)
	}
}
