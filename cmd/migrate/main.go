package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"soulbuddy_backend/internal/app/di"
	infradb "soulbuddy_backend/internal/platform/db"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		slog.Error("failed to open DB", "error", err)
		os.Exit(1)
	}

	if err := di.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrate ok")
}
