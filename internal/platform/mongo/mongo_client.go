// Package mongo はドキュメントストアとしてのMongoDBクライアントを提供します。
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const defaultDatabase = "soulbuddy"

// Config はMongoDB接続設定です。
type Config struct {
	URI      string
	Database string
}

// LoadConfig は環境変数からMongoDB接続設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		URI:      os.Getenv("MONGODB_URI"),
		Database: os.Getenv("MONGODB_DATABASE"),
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	return cfg
}

// Enabled はMongoDBが設定されているかを返します。
func (c Config) Enabled() bool {
	return c.URI != ""
}

// Connect はMongoDBに接続し、疎通を確認したデータベースハンドルを返します。
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, client.Database(cfg.Database), nil
}
