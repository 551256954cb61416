package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"soulbuddy_backend/internal/app/di"
	"soulbuddy_backend/internal/app/router"
	"soulbuddy_backend/internal/feature/chart/extractor"
	chathandler "soulbuddy_backend/internal/feature/chat/transport/handler"
	chatusecase "soulbuddy_backend/internal/feature/chat/usecase"
	geocodinghandler "soulbuddy_backend/internal/feature/geocoding/transport/handler"
	geocodingusecase "soulbuddy_backend/internal/feature/geocoding/usecase"
	horoscopehandler "soulbuddy_backend/internal/feature/horoscope/transport/handler"
	horoscopeusecase "soulbuddy_backend/internal/feature/horoscope/usecase"
	ringtryonhandler "soulbuddy_backend/internal/feature/ringtryon/transport/handler"
	ringtryonusecase "soulbuddy_backend/internal/feature/ringtryon/usecase"
	usershandler "soulbuddy_backend/internal/feature/users/transport/handler"
	usersusecase "soulbuddy_backend/internal/feature/users/usecase"
	"soulbuddy_backend/internal/platform/http/handler"
	infraredis "soulbuddy_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ストア（MongoDB または GORM）
	stores, err := di.NewStores(ctx)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()
	checks := stores.Checks

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Using in-process chart cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Usecase
	provider := di.NewAstrologyProvider(rdb)
	usersUC := usersusecase.NewUsersUsecase(stores.Users)
	horoscopeUC := horoscopeusecase.NewHoroscopeUsecase(provider, extractor.NewSVGExtractor(), stores.HoroscopeUsers, stores.History)
	geocodingUC := geocodingusecase.NewGeocodingUsecase()

	// Handler
	handlers := router.Handlers{
		Users:     usershandler.NewUsersHandler(usersUC),
		Horoscope: horoscopehandler.NewHoroscopeHandler(horoscopeUC),
		Geocoding: geocodinghandler.NewGeocodingHandler(geocodingUC),
		Ready:     handler.Ready(checks),
	}

	if agent, err := di.NewChatAgent(ctx); err != nil {
		slog.Warn("chat agent unavailable. /chat is disabled.", "error", err)
	} else {
		handlers.Chat = chathandler.NewChatHandler(chatusecase.NewChatUsecase(agent))
	}

	if di.RingTryOnEnabled() {
		locator, err := di.NewHandLocator(ctx)
		if err != nil {
			slog.Warn("vision client unavailable. /ring-tryon is disabled.", "error", err)
		} else {
			defer func() {
				if err := locator.Close(); err != nil {
					slog.Error("failed to close vision client", "error", err)
				}
			}()
			handlers.RingTryOn = ringtryonhandler.NewRingTryOnHandler(ringtryonusecase.NewRingTryOnUsecase(locator))
		}
	}

	// ルータ生成
	r := router.NewRouter(handlers, router.LoadOptions())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// logLevel はLOG_LEVEL（debug|info|warn|error）からログレベルを決めます。
func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
