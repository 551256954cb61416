package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"soulbuddy_backend/internal/feature/chat/transport/handler"
	"soulbuddy_backend/internal/shared/apperror"
)

type mockChatUsecase struct {
	SendFunc func(ctx context.Context, message, userID string) (string, error)
}

func (m *mockChatUsecase) Send(ctx context.Context, message, userID string) (string, error) {
	return m.SendFunc(ctx, message, userID)
}

func TestChatHandler_Send(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		send           func(ctx context.Context, message, userID string) (string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"message":"hello","userId":"u-1"}`,
			send: func(ctx context.Context, message, userID string) (string, error) {
				assert.Equal(t, "hello", message)
				assert.Equal(t, "u-1", userID)
				return "Namaste", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Namaste"}`,
		},
		{
			name:           "malformed body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request body"}`,
		},
		{
			name: "validation error",
			body: `{"message":""}`,
			send: func(ctx context.Context, message, userID string) (string, error) {
				return "", apperror.Validation("message is required")
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"validation failed: message is required"}`,
		},
		{
			name: "provider error",
			body: `{"message":"hi"}`,
			send: func(ctx context.Context, message, userID string) (string, error) {
				return "", &apperror.ProviderError{Provider: "langflow", StatusCode: 503, Message: "unavailable"}
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"langflow http 503: unavailable"}`,
		},
		{
			name: "unexpected error",
			body: `{"message":"hi"}`,
			send: func(ctx context.Context, message, userID string) (string, error) {
				return "", errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to process your request. Please try again."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewChatHandler(&mockChatUsecase{SendFunc: tt.send})
			router := gin.New()
			router.POST("/chat", h.Send)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
