package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/gpt_relay/internal/ai"
	"github.com/Vovarama1992/gpt_relay/internal/config"
	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/Vovarama1992/gpt_relay/internal/delivery"
	"github.com/Vovarama1992/gpt_relay/internal/error_notificator"
	"github.com/Vovarama1992/gpt_relay/internal/metrics"
	"github.com/Vovarama1992/gpt_relay/internal/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "gpt_relay"

type Options struct {
	// WithHTTP поднимает /ping, /healthz, /metrics и админские маршруты
	WithHTTP bool
}

// Run собирает зависимости и блокируется до отмены ctx
func Run(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger, opts Options) error {
	log := baseLogger.Sugar()
	zl := logger.NewZapLogger(log)
	started := time.Now()

	// =========================================================================
	// STATE
	// =========================================================================

	store := conversation.NewStore()
	m := metrics.NewMetrics()

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra(cfg.AdminChatID)
	errService := error_notificator.NewService(errInfra, log)

	// =========================================================================
	// AI
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	aiService := ai.NewAiService(store, openAIClient, errService, m, log, cfg.OpenAITimeout)
	tokens := ai.NewTokenCounter(conversation.DefaultModel, log)

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Debug
	errInfra.SetBot(bot)

	botApp := telegram.NewBotApp(aiService, store, tokens, m, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return botApp.Run(gctx, bot)
	})

	// =========================================================================
	// HTTP
	// =========================================================================

	if opts.WithHTTP {
		r := delivery.NewRouter(
			delivery.NewHealthHandler(store, started),
			delivery.NewConversationHandler(store, zl),
			m.Handler(),
			cfg.AdminToken,
		)
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			zl.Log(logger.LogEntry{Level: "info", Message: "listening at " + srv.Addr, Service: serviceName})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	zl.Log(logger.LogEntry{Level: "info", Message: "bot started: @" + bot.Self.UserName, Service: serviceName})
	return g.Wait()
}
