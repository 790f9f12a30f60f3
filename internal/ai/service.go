package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/Vovarama1992/gpt_relay/internal/error_notificator"
	"github.com/Vovarama1992/gpt_relay/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTimeout = 120 * time.Second

type AiService struct {
	store     *conversation.Store
	assembler *Assembler
	completer Completer
	notifier  error_notificator.Notificator
	metrics   *metrics.Metrics
	log       *zap.SugaredLogger
	timeout   time.Duration
}

func NewAiService(
	store *conversation.Store,
	completer Completer,
	notifier error_notificator.Notificator,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
	timeout time.Duration,
) *AiService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AiService{
		store:     store,
		assembler: NewAssembler(store),
		completer: completer,
		notifier:  notifier,
		metrics:   m,
		log:       log,
		timeout:   timeout,
	}
}

// уведомления
func (s *AiService) notifyGptError(ctx context.Context, turnID string, telegramID int64, model string, err error) {
	_ = s.notifier.Notify(ctx, err,
		fmt.Sprintf("Ошибка GPT\nХод: %s\nПользователь: %d\nМодель: %s\n\n%s",
			turnID, telegramID, model, analyzeOpenAIError(err)))
}

// === главный метод ===
func (s *AiService) GetReply(ctx context.Context, telegramID int64, userText string) (string, error) {
	turnID := uuid.NewString()
	start := time.Now()
	s.log.Infow("[ai] >>> START", "turn", turnID, "tg", telegramID)

	// 1) настройки и сообщения
	settings, messages := s.assembler.BuildRequest(telegramID, userText)

	// 2) GPT
	ctxGPT, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.completer.Complete(ctxGPT, CompletionRequest{
		Model:            settings.Model,
		Messages:         messages,
		Temperature:      settings.Temperature,
		MaxTokens:        settings.MaxTokens,
		TopP:             TopP,
		FrequencyPenalty: FrequencyPenalty,
		PresencePenalty:  PresencePenalty,
	})
	err = classifyError(err)

	elapsed := time.Since(start)
	s.metrics.CompletionDuration.Observe(elapsed.Seconds())
	s.metrics.CompletionsTotal.WithLabelValues(outcomeOf(err)).Inc()

	if err != nil {
		s.log.Errorw("[ai] GPT failed",
			"turn", turnID, "tg", telegramID, "model", settings.Model,
			"elapsed", elapsed, "error", err)
		s.notifyGptError(ctx, turnID, telegramID, settings.Model, err)
		return "", err
	}

	// 3) в историю — только удачный обмен
	s.assembler.RecordExchange(telegramID, userText, reply)

	s.log.Infow("[ai] GPT done",
		"turn", turnID, "tg", telegramID, "model", settings.Model,
		"history", len(messages)-2, "elapsed", elapsed)
	return reply, nil
}
