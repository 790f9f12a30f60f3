package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Vovarama1992/gpt_relay/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrAPI         = errors.New("openai api error")
	ErrUnexpected  = errors.New("unexpected error")
)

// classifyError приводит ошибку go-openai к одному из трёх видов
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrAPI) || errors.Is(err, ErrUnexpected) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return byStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return byStatus(reqErr.HTTPStatusCode, err)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrAPI, err)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrAPI, err)
	}

	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}

func byStatus(code int, err error) error {
	if code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ErrAPI, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrAPI):
		return metrics.OutcomeAPIError
	default:
		return metrics.OutcomeUnexpected
	}
}

// диагностика ошибок GPT для админа
func analyzeOpenAIError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return "Неверный API-ключ OpenAI."
		case http.StatusNotFound:
			return "Модель не найдена."
		case http.StatusTooManyRequests:
			return "Превышен лимит OpenAI."
		case http.StatusBadRequest:
			return "Некорректный запрос к OpenAI."
		case http.StatusInternalServerError:
			return "Внутренняя ошибка OpenAI."
		}
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return "OpenAI временно отключён предохранителем после серии ошибок."
	case errors.Is(err, context.DeadlineExceeded):
		return "OpenAI не ответил вовремя."
	}
	return "Неизвестная ошибка OpenAI: " + err.Error()
}
