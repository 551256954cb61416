package di

import (
	"context"
	"fmt"
	"os"

	"soulbuddy_backend/internal/feature/chat/adapters/gemini"
	"soulbuddy_backend/internal/feature/chat/usecase"
	"soulbuddy_backend/internal/platform/externalapi/langflow"
	infrahttp "soulbuddy_backend/internal/platform/http"
)

const (
	// ChatAgentLangflow はLangflowのフローで返答するエージェントです（既定）。
	ChatAgentLangflow = "langflow"
	// ChatAgentGemini はGemini APIで返答するエージェントです。
	ChatAgentGemini = "gemini"
)

// NewChatAgent はCHAT_AGENTに応じたチャットエージェントを生成します。
func NewChatAgent(ctx context.Context) (usecase.Agent, error) {
	switch agent := os.Getenv("CHAT_AGENT"); agent {
	case ChatAgentGemini:
		return gemini.NewGeminiAgent(ctx)
	case ChatAgentLangflow, "":
		cfg := langflow.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return langflow.NewLangflowClient(cfg, infrahttp.NewHTTPClient(infrahttp.ClientOptions{Timeout: cfg.Timeout})), nil
	default:
		return nil, fmt.Errorf("unsupported CHAT_AGENT %q", agent)
	}
}
