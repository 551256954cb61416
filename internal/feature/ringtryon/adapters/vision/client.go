// Package vision はGoogle Cloud Vision APIを使用した手の位置検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"
	"strings"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"soulbuddy_backend/internal/feature/ringtryon/domain/entity"
	"soulbuddy_backend/internal/feature/ringtryon/usecase"
)

// handLabel はオブジェクト検出で手を表すラベルです。
const handLabel = "hand"

// VisionHandLocator はGoogle Cloud Vision APIのオブジェクト検出で手を探します。
type VisionHandLocator struct {
	client *gvision.ImageAnnotatorClient
}

// VisionHandLocatorがHandLocatorを実装していることをコンパイル時に検証します。
var _ usecase.HandLocator = (*VisionHandLocator)(nil)

// NewVisionHandLocator はADCを使用してVisionHandLocatorの新しいインスタンスを生成します。
func NewVisionHandLocator(ctx context.Context) (*VisionHandLocator, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionHandLocator{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionHandLocator) Close() error {
	return v.client.Close()
}

// LocateHand は画像バイト列から最もスコアの高い手の矩形を返します。
func (v *VisionHandLocator) LocateHand(ctx context.Context, imageData []byte) (*entity.HandBox, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_OBJECT_LOCALIZATION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}

	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	return BestHand(resp.Responses[0].LocalizedObjectAnnotations), nil
}

// BestHand は検出結果から最もスコアの高い手を選び、正規化座標の矩形に変換します。
func BestHand(objects []*visionpb.LocalizedObjectAnnotation) *entity.HandBox {
	var best *entity.HandBox
	for _, obj := range objects {
		if !strings.EqualFold(obj.GetName(), handLabel) {
			continue
		}
		vertices := obj.GetBoundingPoly().GetNormalizedVertices()
		if len(vertices) == 0 {
			continue
		}
		if best != nil && obj.GetScore() <= best.Score {
			continue
		}

		box := entity.HandBox{
			Left:   float64(vertices[0].GetX()),
			Top:    float64(vertices[0].GetY()),
			Right:  float64(vertices[0].GetX()),
			Bottom: float64(vertices[0].GetY()),
			Score:  obj.GetScore(),
		}
		for _, p := range vertices[1:] {
			box.Left = min(box.Left, float64(p.GetX()))
			box.Top = min(box.Top, float64(p.GetY()))
			box.Right = max(box.Right, float64(p.GetX()))
			box.Bottom = max(box.Bottom, float64(p.GetY()))
		}
		best = &box
	}
	return best
}
