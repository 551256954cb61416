package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/gorm"

	horoscopeadapters "soulbuddy_backend/internal/feature/horoscope/adapters"
	horoscopemongo "soulbuddy_backend/internal/feature/horoscope/adapters/mongo"
	horoscopeusecase "soulbuddy_backend/internal/feature/horoscope/usecase"
	usersadapters "soulbuddy_backend/internal/feature/users/adapters"
	usersmongo "soulbuddy_backend/internal/feature/users/adapters/mongo"
	"soulbuddy_backend/internal/feature/users/domain/entity"
	usersusecase "soulbuddy_backend/internal/feature/users/usecase"
	infradb "soulbuddy_backend/internal/platform/db"
	"soulbuddy_backend/internal/platform/http/handler"
	inframongo "soulbuddy_backend/internal/platform/mongo"
)

// Stores はユーザーとホロスコープ履歴の永続化先をまとめたものです。
type Stores struct {
	Users          usersusecase.UserRepository
	HoroscopeUsers horoscopeusecase.UserStore
	History        horoscopeusecase.HistoryStore
	// Checks は /readyz で確認する依存先です。
	Checks map[string]handler.Check
	// Close は接続を解放します。
	Close func()
}

// NewStores はMONGODB_URIが設定されていればMongoDB、なければGORMの接続先でストアを生成します。
func NewStores(ctx context.Context) (*Stores, error) {
	if cfg := inframongo.LoadConfig(); cfg.Enabled() {
		return newMongoStores(ctx, cfg)
	}
	return newGormStores()
}

func newMongoStores(ctx context.Context, cfg inframongo.Config) (*Stores, error) {
	client, db, err := inframongo.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	users := usersmongo.NewUserMongo(db)
	history := horoscopemongo.NewHistoryMongo(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure users indexes", "error", err)
	}
	if err := history.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure history indexes", "error", err)
	}

	return &Stores{
		Users:          users,
		HoroscopeUsers: horoscopemongo.NewUserStoreMongo(db),
		History:        history,
		Checks: map[string]handler.Check{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		},
		Close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect MongoDB", "error", err)
			}
		},
	}, nil
}

func newGormStores() (*Stores, error) {
	cfg := infradb.LoadConfigFromEnv()
	db, err := infradb.OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == infradb.DriverSQLite || os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return &Stores{
		Users:          usersadapters.NewUserGorm(db),
		HoroscopeUsers: horoscopeadapters.NewUserStoreGorm(db),
		History:        horoscopeadapters.NewHistoryGorm(db),
		Checks: map[string]handler.Check{
			"db": func(ctx context.Context) error { return infradb.Ping(ctx, db) },
		},
		Close: func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					slog.Error("failed to close DB", "error", err)
				}
			}
		},
	}, nil
}

// Migrate はusersとhoroscope_dataのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &horoscopeadapters.HistoryModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	slog.Info("database migrated")
	return nil
}
