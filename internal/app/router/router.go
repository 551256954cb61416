// Package router はHTTPルーティングを組み立てます。
package router

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	chathandler "soulbuddy_backend/internal/feature/chat/transport/handler"
	geocodinghandler "soulbuddy_backend/internal/feature/geocoding/transport/handler"
	horoscopehandler "soulbuddy_backend/internal/feature/horoscope/transport/handler"
	ringtryonhandler "soulbuddy_backend/internal/feature/ringtryon/transport/handler"
	usershandler "soulbuddy_backend/internal/feature/users/transport/handler"
	"soulbuddy_backend/internal/platform/http/handler"
	"soulbuddy_backend/internal/platform/http/middleware"
)

const (
	defaultChatRatePerMinute      = 20
	defaultHoroscopeRatePerMinute = 30
)

// Handlers はルーターに登録するハンドラーです。RingTryOnとChatはnilなら登録しません。
type Handlers struct {
	Users     *usershandler.UsersHandler
	Horoscope *horoscopehandler.HoroscopeHandler
	Geocoding *geocodinghandler.GeocodingHandler
	Chat      *chathandler.ChatHandler
	RingTryOn *ringtryonhandler.RingTryOnHandler
	Ready     gin.HandlerFunc
}

// Options はルーターの環境依存の設定です。
type Options struct {
	AllowedOrigins         []string
	ChatRatePerMinute      int
	HoroscopeRatePerMinute int
}

// LoadOptions は環境変数からルーター設定を読み込みます。
func LoadOptions() Options {
	opts := Options{
		ChatRatePerMinute:      defaultChatRatePerMinute,
		HoroscopeRatePerMinute: defaultHoroscopeRatePerMinute,
	}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			opts.AllowedOrigins = append(opts.AllowedOrigins, o)
		}
	}
	if v, err := strconv.Atoi(os.Getenv("CHAT_RATE_PER_MINUTE")); err == nil {
		opts.ChatRatePerMinute = v
	}
	return opts
}

// NewRouter はミドルウェアとルートを登録したgin.Engineを返します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// ブラウザのフロントエンドから呼ばれるためCORSを許可
	if len(opts.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.AllowedOrigins
		cfg.AddExposeHeaders(middleware.HeaderRequestID)
		r.Use(cors.New(cfg))
	} else {
		r.Use(cors.Default())
	}

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}

	// ユーザー登録・一覧
	r.POST("/users", h.Users.Register)
	r.GET("/users", h.Users.List)

	// ホロスコープ
	r.GET("/users/:userId/horoscope", h.Horoscope.Get)
	r.GET("/users/:userId/horoscope/history", h.Horoscope.History)
	r.POST("/horoscope", middleware.RateLimit(opts.HoroscopeRatePerMinute), h.Horoscope.Generate)

	// 出生地の座標
	r.GET("/geocode", h.Geocoding.Lookup)

	if h.Chat != nil {
		r.POST("/chat", middleware.RateLimit(opts.ChatRatePerMinute), h.Chat.Send)
	}
	if h.RingTryOn != nil {
		r.POST("/ring-tryon", h.RingTryOn.Compose)
	}

	return r
}
