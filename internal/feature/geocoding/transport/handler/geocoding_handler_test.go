package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"soulbuddy_backend/internal/feature/geocoding/transport/handler"
	"soulbuddy_backend/internal/feature/geocoding/usecase"
)

func TestGeocodingHandler_Lookup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewGeocodingHandler(usecase.NewGeocodingUsecase())
	router := gin.New()
	router.GET("/geocode", h.Lookup)

	tests := []struct {
		name         string
		url          string
		expectedBody string
	}{
		{"city", "/geocode?city=chennai", `{"latitude":13.0827,"longitude":80.2707,"matched":"Chennai"}`},
		{"state fallback", "/geocode?city=Nashik&state=Maharashtra", `{"latitude":19.7515,"longitude":75.7139,"matched":"Maharashtra"}`},
		{"no params", "/geocode", `{"latitude":19.076,"longitude":72.8777,"matched":"Mumbai"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
