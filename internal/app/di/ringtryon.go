package di

import (
	"context"
	"os"

	"soulbuddy_backend/internal/feature/ringtryon/adapters/vision"
)

// RingTryOnEnabled は指輪試着が有効化されているかを返します。Google Cloudの認証情報が必要です。
func RingTryOnEnabled() bool {
	return os.Getenv("RING_TRYON_ENABLED") == "true"
}

// NewHandLocator はCloud Visionを使う手の位置検出器を生成します。
func NewHandLocator(ctx context.Context) (*vision.VisionHandLocator, error) {
	return vision.NewVisionHandLocator(ctx)
}
