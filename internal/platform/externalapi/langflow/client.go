package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"soulbuddy_backend/internal/feature/chat/usecase"
	"soulbuddy_backend/internal/platform/externalapi/langflow/dto"
	"soulbuddy_backend/internal/shared/apperror"
)

const (
	providerName = "langflow"
	// promptComponent はフロー内のプロンプトコンポーネントIDです。
	promptComponent = "Prompt-ydstl"
	// FallbackReply は返答が取り出せなかった場合の定型文です。
	FallbackReply = "I apologize, but I was unable to process your request."
	maxBodyBytes  = 1 << 20
)

func errMissing(key string) error {
	return fmt.Errorf("langflow: %s is not set", key)
}

// LangflowClient はLangflowのフローを実行するAgent実装です。
type LangflowClient struct {
	cfg    Config
	client *http.Client
}

// LangflowClientがAgentを実装していることをコンパイル時に検証します。
var _ usecase.Agent = (*LangflowClient)(nil)

// NewLangflowClient は指定された設定でLangflowClientの新しいインスタンスを生成します。
func NewLangflowClient(cfg Config, client *http.Client) *LangflowClient {
	return &LangflowClient{cfg: cfg, client: client}
}

// SendMessage はフローを同期実行し、チャット出力のテキストを返します。
// 2xxでもJSONでない本文はそのまま返答として扱います。
func (c *LangflowClient) SendMessage(ctx context.Context, message, userID string) (string, error) {
	endpoint, err := c.runURL()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(dto.RunRequest{
		InputValue: message,
		InputType:  "chat",
		OutputType: "chat",
		Tweaks: map[string]any{
			promptComponent: dto.PromptTweak{
				Template: usecase.SystemPrompt + "\n{userId}",
				UserID:   userID,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal langflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create langflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &apperror.ProviderError{Provider: providerName, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &apperror.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &apperror.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: msg}
	}

	var run dto.RunResponse
	if err := json.Unmarshal(body, &run); err != nil {
		slog.Debug("langflow returned non-JSON body", "status", resp.StatusCode)
		return string(body), nil
	}
	if text := run.Text(); text != "" {
		return text, nil
	}
	slog.Warn("langflow reply path missing, using fallback", "status", resp.StatusCode)
	return FallbackReply, nil
}

// runURL は {url}/lf/{langflowId}/api/v1/run/{flowId}?stream=false を組み立てます。
func (c *LangflowClient) runURL() (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimRight(c.cfg.URL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse langflow url: %w", err)
	}
	u = u.JoinPath("lf", c.cfg.LangflowID, "api", "v1", "run", c.cfg.FlowID)
	u.RawQuery = url.Values{"stream": {"false"}}.Encode()
	return u.String(), nil
}
