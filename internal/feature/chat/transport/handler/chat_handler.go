// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
	"soulbuddy_backend/internal/feature/chat/transport/http/dto"
	"soulbuddy_backend/internal/shared/apperror"
)

// ChatUsecase はチャットのユースケースインターフェースを定義します。
type ChatUsecase interface {
	Send(ctx context.Context, message, userID string) (string, error)
}

// ChatHandler はチャットのHTTPリクエストを処理します。
type ChatHandler struct {
	uc ChatUsecase
}

// NewChatHandler はChatHandlerの新しいインスタンスを生成します。
func NewChatHandler(uc ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Send はメッセージをエージェントに送り、返答を返します。
//
// エンドポイント: POST /chat
// Content-Type: application/json
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.ChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("chat request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	reply, err := h.uc.Send(c.Request.Context(), req.Message, req.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		if pe, ok := apperror.AsProviderError(err); ok {
			slog.Warn("chat agent failed", "error", err, "provider", pe.Provider, "status", pe.StatusCode)
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: pe.Error()})
			return
		}
		slog.Error("chat failed", "error", err, "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process your request. Please try again."})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: reply})
}
