// Package gemini はGoogle Gemini APIを使用したチャットエージェントを提供します。
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"soulbuddy_backend/internal/feature/chat/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiAgent はGoogle Gemini APIで返答を生成するAgent実装です。
type GeminiAgent struct {
	client *genai.Client
	model  string
}

// GeminiAgentがAgentを実装していることをコンパイル時に検証します。
var _ usecase.Agent = (*GeminiAgent)(nil)

// NewGeminiAgent はADCを使用してGeminiAgentの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION（またはGOOGLE_API_KEY）が必要です。
// GEMINI_MODEL でモデルを上書きできます。
func NewGeminiAgent(ctx context.Context) (*GeminiAgent, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAgent{client: client, model: model}, nil
}

// SendMessage はSoulBuddyの人格設定とユーザーIDをシステム指示に載せて返答を生成します。
func (g *GeminiAgent) SendMessage(ctx context.Context, message, userID string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(userID), genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(message), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}

// SystemInstruction は人格設定にユーザーIDを付け加えたシステム指示を返します。
func SystemInstruction(userID string) string {
	if userID == "" {
		return usecase.SystemPrompt
	}
	return usecase.SystemPrompt + "\nuserId: " + userID
}
