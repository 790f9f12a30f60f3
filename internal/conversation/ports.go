package conversation

import (
	"errors"
	"fmt"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry — одна реплика в истории, после создания не меняется
type Entry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Message — то, что уходит в completion API (без времени)
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Settings — параметры генерации пользователя
type Settings struct {
	Model        string  `json:"model" validate:"known_model"`
	Temperature  float64 `json:"temperature" validate:"gte=0.1,lte=2"`
	MaxTokens    int     `json:"max_tokens" validate:"gte=100,lte=4000"`
	SystemPrompt string  `json:"system_prompt" validate:"required"`
}

var (
	ErrOutOfRange   = errors.New("value out of range")
	ErrEmptyPrompt  = errors.New("system prompt is empty")
	ErrUnknownModel = errors.New("unknown model")
)

// RangeError — значение настройки не распарсилось или вышло за границы.
// errors.Is(err, ErrOutOfRange) срабатывает в обоих случаях.
type RangeError struct {
	Setting string
	Value   string
	Min     float64
	Max     float64
	Err     error // ошибка парсинга, если была
}

func (e *RangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: cannot parse %q: %v", e.Setting, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %s is outside [%g, %g]", e.Setting, e.Value, e.Min, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

func (e *RangeError) Unwrap() error { return e.Err }

// IsParseError — true, если значение вообще не число
func (e *RangeError) IsParseError() bool { return e.Err != nil }
