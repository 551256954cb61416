// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
)

// healthAllow は /healthz が受け付けるメソッドです。
const healthAllow = "GET, HEAD, OPTIONS"

// Health は /healthz の生存確認です。依存先には触れず、プロセスが応答できるかだけを返します。
// 依存先の疎通はReadyで確認します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodGet:
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Header("Allow", healthAllow)
		c.Status(http.StatusNoContent)
	default:
		c.Header("Allow", healthAllow)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, api.ErrorResponse{Error: "method not allowed"})
	}
}
