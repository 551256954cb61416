package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	geocodinghandler "soulbuddy_backend/internal/feature/geocoding/transport/handler"
	geocodingusecase "soulbuddy_backend/internal/feature/geocoding/usecase"
	horoscopehandler "soulbuddy_backend/internal/feature/horoscope/transport/handler"
	usershandler "soulbuddy_backend/internal/feature/users/transport/handler"
	"soulbuddy_backend/internal/platform/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return NewRouter(Handlers{
		Users:     usershandler.NewUsersHandler(nil),
		Horoscope: horoscopehandler.NewHoroscopeHandler(nil),
		Geocoding: geocodinghandler.NewGeocodingHandler(geocodingusecase.NewGeocodingUsecase()),
		Ready:     handler.Ready(nil),
	}, Options{AllowedOrigins: []string{"http://localhost:3000"}})
}

func TestNewRouter_Routes(t *testing.T) {
	r := newTestRouter()

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"HEAD /healthz",
		"OPTIONS /healthz",
		"GET /readyz",
		"POST /users",
		"GET /users",
		"GET /users/:userId/horoscope",
		"GET /users/:userId/horoscope/history",
		"POST /horoscope",
		"GET /geocode",
	} {
		assert.True(t, registered[want], "route %s should be registered", want)
	}

	assert.False(t, registered["POST /chat"], "chat is optional")
	assert.False(t, registered["POST /ring-tryon"], "ring try-on is optional")
}

func TestNewRouter_HealthAndRequestID(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewRouter_CORS(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/geocode?city=Pune", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("CHAT_RATE_PER_MINUTE", "5")

	opts := LoadOptions()
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, opts.AllowedOrigins)
	assert.Equal(t, 5, opts.ChatRatePerMinute)
	assert.Equal(t, defaultHoroscopeRatePerMinute, opts.HoroscopeRatePerMinute)
}
