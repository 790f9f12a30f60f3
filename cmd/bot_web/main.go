package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/gpt_relay/internal/app"
	"github.com/Vovarama1992/gpt_relay/internal/config"
	"go.uber.org/zap"
)

// Вариант для хостингов, которым нужен открытый порт: бот + /ping, /healthz, /metrics
func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	if cfg.Debug {
		baseLogger, _ = zap.NewDevelopment()
	}
	defer baseLogger.Sync()

	// =========================================================================
	// START BOT + SERVER
	// =========================================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, baseLogger, app.Options{WithHTTP: true}); err != nil {
		baseLogger.Fatal("bot_web stopped with error", zap.Error(err))
	}
}
