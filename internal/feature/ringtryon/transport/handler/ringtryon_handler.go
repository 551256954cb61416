// Package handler はringtryonフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
	"soulbuddy_backend/internal/feature/ringtryon/usecase"
	"soulbuddy_backend/internal/shared/apperror"
)

// RingTryOnUsecase は指輪試着のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RingTryOnUsecase interface {
	Compose(ctx context.Context, handData, ringData []byte) ([]byte, error)
}

// RingTryOnHandler は指輪試着のHTTPリクエストを処理します。
type RingTryOnHandler struct {
	uc RingTryOnUsecase
}

// NewRingTryOnHandler はRingTryOnHandlerの新しいインスタンスを生成します。
func NewRingTryOnHandler(uc RingTryOnUsecase) *RingTryOnHandler {
	return &RingTryOnHandler{uc: uc}
}

// Compose は手の写真と指輪画像を受け取り、合成したPNGを返します。
//
// エンドポイント: POST /ring-tryon
// Content-Type: multipart/form-data
// フィールド: hand_file（手の写真）、ring_file（透過PNGの指輪）
func (h *RingTryOnHandler) Compose(c *gin.Context) {
	handFile, herr := c.FormFile("hand_file")
	ringFile, rerr := c.FormFile("ring_file")
	if herr != nil || rerr != nil {
		slog.Warn("ring try-on files missing", "hand_error", herr, "ring_error", rerr, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Hand and ring files are required"})
		return
	}

	handData, err := readUpload(handFile)
	if err != nil {
		slog.Error("failed to read hand_file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read uploaded image"})
		return
	}
	ringData, err := readUpload(ringFile)
	if err != nil {
		slog.Error("failed to read ring_file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read uploaded image"})
		return
	}

	out, err := h.uc.Compose(c.Request.Context(), handData, ringData)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrNoHandDetected):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "No hand detected in the image"})
		default:
			slog.Error("ring try-on failed", "error", err)
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Failed to process image"})
		}
		return
	}

	c.Data(http.StatusOK, "image/png", out)
}

// readUpload はアップロードされたファイルを上限サイズまで読み込みます。
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close uploaded file", "error", err)
		}
	}()
	// 上限を1バイト超えて読み、usecase側でサイズ超過を検出させる
	return io.ReadAll(io.LimitReader(f, usecase.MaxImageSize+1))
}
