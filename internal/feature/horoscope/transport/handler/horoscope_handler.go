// Package handler はhoroscopeフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/transport/http/dto"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
	"soulbuddy_backend/internal/shared/apperror"
)

// HoroscopeUsecase はホロスコープ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HoroscopeUsecase interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (*entity.Horoscope, error)
	Get(ctx context.Context, userID string) (*entity.Horoscope, error)
	History(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error)
}

// HoroscopeHandler はホロスコープのHTTPリクエストを処理します。
type HoroscopeHandler struct {
	uc HoroscopeUsecase
}

// NewHoroscopeHandler はHoroscopeHandlerの新しいインスタンスを生成します。
func NewHoroscopeHandler(uc HoroscopeUsecase) *HoroscopeHandler {
	return &HoroscopeHandler{uc: uc}
}

// Generate は POST /horoscope を処理します。
// - 入力不正時は400
// - ユーザー不明時は404
// - プロバイダーエラー時は502（プロバイダーのメッセージを返却）
// - 成功時は生成したホロスコープを200で返却
func (h *HoroscopeHandler) Generate(c *gin.Context) {
	var req dto.GenerateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("generate horoscope: invalid body", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	horoscope, err := h.uc.Generate(c.Request.Context(), usecase.GenerateInput{
		Datetime:  req.Datetime,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		UserID:    req.UserID,
	})
	if err != nil {
		writeError(c, "generate horoscope", err)
		return
	}
	c.JSON(http.StatusOK, horoscope)
}

// Get は GET /users/:userId/horoscope を処理します。
// 未生成の場合は空オブジェクトを返します。
func (h *HoroscopeHandler) Get(c *gin.Context) {
	horoscope, err := h.uc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, "get horoscope", err)
		return
	}
	if horoscope == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, horoscope)
}

// History は GET /users/:userId/horoscope/history?limit=20 を処理します。
func (h *HoroscopeHandler) History(c *gin.Context) {
	// 不正な値は0として扱い、usecaseで既定値に置き換える
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	snapshots, err := h.uc.History(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		writeError(c, "horoscope history", err)
		return
	}

	out := make([]api.HoroscopeHistoryResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, api.HoroscopeHistoryResponse{
			ID:              s.ID,
			UserID:          s.UserID,
			Interpretations: s.Interpretations,
			Recommendations: s.Recommendations,
			MangalDosha:     s.MangalDosha,
			LastUpdated:     s.LastUpdated.UTC(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// writeError はエラー種別をHTTPステータスに対応付けて返却します。
func writeError(c *gin.Context, op string, err error) {
	if errors.Is(err, apperror.ErrValidation) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, usecase.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}
	if pe, ok := apperror.AsProviderError(err); ok {
		slog.Warn(op+": provider error", "error", err, "provider", pe.Provider, "status", pe.StatusCode)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: pe.Error()})
		return
	}
	slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
}
