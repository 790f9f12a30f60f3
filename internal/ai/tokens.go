package ai

import (
	"unicode/utf8"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// служебные токены на каждое сообщение чата
const tokensPerMessage = 4

// TokenCounter оценивает, сколько токенов займёт история в запросе.
// Без токенизатора считает грубо: ~4 символа на токен.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter при первом вызове tiktoken скачивает словарь, поэтому при
// недоступной сети молча переходим на грубую оценку
func NewTokenCounter(model string, log *zap.SugaredLogger) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Warnw("[tokens] tokenizer init fail, using estimate", "model", model, "error", err)
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

func (c *TokenCounter) Count(messages []conversation.Message) int {
	total := 0
	for _, m := range messages {
		total += tokensPerMessage
		if c.enc != nil {
			total += len(c.enc.Encode(m.Content, nil, nil))
			continue
		}
		total += (utf8.RuneCountInString(m.Content) + 3) / 4
	}
	return total
}
