package ai

import (
	"context"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
)

// фиксированные параметры сэмплирования
const (
	TopP             = 0.95
	FrequencyPenalty = 0.3
	PresencePenalty  = 0.3
)

type CompletionRequest struct {
	Model            string
	Messages         []conversation.Message
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Completer — клиент completion API. Ошибки уже приведены к
// ErrRateLimited / ErrAPI / ErrUnexpected.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Service interface {
	// GetReply получает ответ от GPT на новое сообщение пользователя.
	// История пополняется только при успешном ответе.
	GetReply(ctx context.Context, telegramID int64, userText string) (string, error)
}
