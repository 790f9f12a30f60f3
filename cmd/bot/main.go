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

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()

	// =========================================================================
	// START BOT
	// =========================================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, baseLogger, app.Options{}); err != nil {
		baseLogger.Fatal("bot stopped with error", zap.Error(err))
	}
}
