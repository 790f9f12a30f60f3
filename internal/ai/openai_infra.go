package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

type OpenAIClient struct {
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIClient — baseURL пустой = api.openai.com
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openai",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			// лимит запросов — это не поломка OpenAI, предохранитель не трогаем
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrRateLimited)
			},
		}),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:            req.Model,
			Messages:         messages,
			Temperature:      float32(req.Temperature),
			MaxTokens:        req.MaxTokens,
			TopP:             float32(req.TopP),
			FrequencyPenalty: float32(req.FrequencyPenalty),
			PresencePenalty:  float32(req.PresencePenalty),
		})
		if err != nil {
			return "", classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty choices", ErrUnexpected)
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", classifyError(err)
	}
	return out.(string), nil
}
