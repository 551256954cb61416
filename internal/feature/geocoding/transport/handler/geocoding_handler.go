// Package handler はgeocodingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
	"soulbuddy_backend/internal/feature/geocoding/domain/entity"
)

// GeocodingUsecase は座標解決のユースケースインターフェースです。
type GeocodingUsecase interface {
	Lookup(city, state string) entity.Location
}

// GeocodingHandler は座標解決のHTTPリクエストを処理します。
type GeocodingHandler struct {
	uc GeocodingUsecase
}

// NewGeocodingHandler はGeocodingHandlerの新しいインスタンスを生成します。
func NewGeocodingHandler(uc GeocodingUsecase) *GeocodingHandler {
	return &GeocodingHandler{uc: uc}
}

// Lookup は都市名・州名から座標を返すAPIです。
//
// エンドポイント例:
// GET /geocode?city=Pune&state=Maharashtra
func (h *GeocodingHandler) Lookup(c *gin.Context) {
	loc := h.uc.Lookup(c.Query("city"), c.Query("state"))
	c.JSON(http.StatusOK, api.GeocodeResponse{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Matched:   loc.Name,
	})
}
