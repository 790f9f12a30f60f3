package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string        `validate:"required"`
	OpenAIKey     string        `validate:"required"`
	OpenAIBaseURL string        `validate:"omitempty,url"`
	OpenAITimeout time.Duration `validate:"gt=0"`
	Port          string        `validate:"required,numeric"`
	AdminChatID   int64
	AdminToken    string
	Debug         bool
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAITimeout: 120 * time.Second,
		Port:          os.Getenv("PORT"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if v := os.Getenv("OPENAI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("OPENAI_TIMEOUT: %w", err)
		}
		cfg.OpenAITimeout = d
	}

	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID: %w", err)
		}
		cfg.AdminChatID = id
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
