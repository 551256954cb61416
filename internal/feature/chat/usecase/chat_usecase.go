package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"soulbuddy_backend/internal/shared/apperror"
)

// MaxMessageLength はチャットメッセージの最大文字数（rune数）です。
const MaxMessageLength = 2000

// SystemPrompt はチャットエージェントに与える人格設定です。
const SystemPrompt = `You are SoulBuddy, an AI spiritual guide with access to user's spiritual profile and astrological data.
- Keep responses concise and compassionate
- Include specific references to user's data when relevant
- Provide practical, actionable guidance
- If suggesting rituals or practices, explain their benefits
- Always maintain a supportive and understanding tone

Important: If you cannot find specific information in the provided data, acknowledge this and provide general spiritual guidance instead.

Remember: You are a spiritual guide focused on personal growth and well-being. Maintain authenticity while being sensitive to different spiritual beliefs and practices.`

// Agent は会話エージェントのバックエンドです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Agent interface {
	// SendMessage はユーザーのメッセージを送り、エージェントの返答を返します。
	SendMessage(ctx context.Context, message, userID string) (string, error)
}

// chatUsecase はメッセージの検証とエージェント呼び出しを行います。
type chatUsecase struct {
	agent Agent
}

// NewChatUsecase はchatUsecaseの新しいインスタンスを生成します。
func NewChatUsecase(agent Agent) *chatUsecase {
	return &chatUsecase{agent: agent}
}

// Send はメッセージを検証してエージェントに転送します。
func (u *chatUsecase) Send(ctx context.Context, message, userID string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperror.Validation("message is required")
	}
	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		return "", apperror.Validation("message exceeds maximum length of %d characters", MaxMessageLength)
	}

	reply, err := u.agent.SendMessage(ctx, message, strings.TrimSpace(userID))
	if err != nil {
		return "", fmt.Errorf("chat agent: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}

	slog.Debug("chat reply", "user_id", userID, "reply_len", len(reply))
	return reply, nil
}
