package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // 手の写真はJPEGで送られることが多い
	"image/png"
	"log/slog"

	"github.com/nfnt/resize"

	"soulbuddy_backend/internal/feature/ringtryon/domain/entity"
	"soulbuddy_backend/internal/shared/apperror"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// MaxHandPixels, MaxRingPixels はデコードを許可する画素数の上限です。
	// 圧縮後のサイズが小さくても展開後に巨大になる画像を拒否します。
	MaxHandPixels = 25_000_000
	MaxRingPixels = 4_000_000
	// RingWidth, RingHeight は合成前に指輪画像を縮小するサイズです。
	RingWidth  = 100
	RingHeight = 90
	// ringAnchorRatio は手の矩形の上端から指輪を置く位置までの割合です。
	ringAnchorRatio = 0.35
	// ringOffsetX, ringOffsetY はアンカーから指輪画像の左上までのずれです。
	ringOffsetX = 30
	ringOffsetY = 10
)

// HandLocator は画像から手の位置を検出するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HandLocator interface {
	// LocateHand は最も確からしい手の矩形を返します。手がなければnilを返します。
	LocateHand(ctx context.Context, imageData []byte) (*entity.HandBox, error)
}

// ringTryOnUsecase は手の写真に指輪画像を合成します。
type ringTryOnUsecase struct {
	locator HandLocator
}

// NewRingTryOnUsecase はringTryOnUsecaseの新しいインスタンスを生成します。
func NewRingTryOnUsecase(locator HandLocator) *ringTryOnUsecase {
	return &ringTryOnUsecase{locator: locator}
}

// Compose は手の写真の上に指輪を重ねたPNGを返します。
func (u *ringTryOnUsecase) Compose(ctx context.Context, handData, ringData []byte) ([]byte, error) {
	if err := validateSize("hand_file", handData); err != nil {
		return nil, err
	}
	if err := validateSize("ring_file", ringData); err != nil {
		return nil, err
	}

	handCfg, _, err := image.DecodeConfig(bytes.NewReader(handData))
	if err != nil {
		return nil, apperror.Validation("hand_file is not a supported image: %v", err)
	}
	if err := validatePixels("hand_file", handCfg, MaxHandPixels); err != nil {
		return nil, err
	}
	ringCfg, err := png.DecodeConfig(bytes.NewReader(ringData))
	if err != nil {
		return nil, apperror.Validation("ring_file must be a PNG image: %v", err)
	}
	if err := validatePixels("ring_file", ringCfg, MaxRingPixels); err != nil {
		return nil, err
	}

	hand, _, err := image.Decode(bytes.NewReader(handData))
	if err != nil {
		return nil, apperror.Validation("hand_file is not a supported image: %v", err)
	}
	ring, err := png.Decode(bytes.NewReader(ringData))
	if err != nil {
		return nil, apperror.Validation("ring_file must be a PNG image: %v", err)
	}

	box, err := u.locator.LocateHand(ctx, handData)
	if err != nil {
		return nil, fmt.Errorf("locate hand: %w", err)
	}
	if box == nil {
		return nil, ErrNoHandDetected
	}

	out := Overlay(hand, ring, *box)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	slog.Debug("ring composed", "hand_score", box.Score, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// Overlay は指輪をRingWidth×RingHeightに縮小し、手の矩形の中央・上から35%の位置を基準にアルファ合成します。
// 画像からはみ出す部分は切り取られます。
func Overlay(hand, ring image.Image, box entity.HandBox) *image.RGBA {
	b := hand.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, hand, b.Min, draw.Src)

	scaled := resize.Resize(RingWidth, RingHeight, ring, resize.Lanczos3)

	anchorX := b.Min.X + int((box.Left+box.Width()/2)*float64(b.Dx()))
	anchorY := b.Min.Y + int((box.Top+box.Height()*ringAnchorRatio)*float64(b.Dy()))
	topLeft := image.Pt(anchorX-ringOffsetX, anchorY-ringOffsetY)

	r := image.Rectangle{Min: topLeft, Max: topLeft.Add(scaled.Bounds().Size())}
	draw.Draw(dst, r, scaled, scaled.Bounds().Min, draw.Over)
	return dst
}

func validateSize(field string, data []byte) error {
	if len(data) == 0 {
		return apperror.Validation("%s is empty", field)
	}
	if len(data) > MaxImageSize {
		return apperror.Validation("%s exceeds maximum of %d bytes", field, MaxImageSize)
	}
	return nil
}

func validatePixels(field string, cfg image.Config, limit int) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return apperror.Validation("%s has no pixels", field)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return apperror.Validation("%s is %dx%d, exceeds maximum of %d pixels", field, cfg.Width, cfg.Height, limit)
	}
	return nil
}
