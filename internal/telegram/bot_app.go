package telegram

import (
	"context"
	"sync"

	"github.com/Vovarama1992/gpt_relay/internal/ai"
	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/Vovarama1992/gpt_relay/internal/metrics"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender — то, что нужно хендлерам от *tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type tokenCounter interface {
	Count(messages []conversation.Message) int
}

type BotApp struct {
	AiService ai.Service
	Store     *conversation.Store
	Tokens    tokenCounter
	Metrics   *metrics.Metrics

	log      *zap.SugaredLogger
	inFlight sync.WaitGroup
}

func NewBotApp(
	aiService ai.Service,
	store *conversation.Store,
	tokens tokenCounter,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) *BotApp {
	return &BotApp{
		AiService: aiService,
		Store:     store,
		Tokens:    tokens,
		Metrics:   m,
		log:       log,
	}
}

// Run крутит long polling до отмены ctx, потом дожидается начатых хендлеров
func (app *BotApp) Run(ctx context.Context, bot *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := bot.GetUpdatesChan(u)
	app.log.Infow("[bot_app] ready", "username", bot.Self.UserName)

	app.runBotLoop(ctx, updates, bot)

	bot.StopReceivingUpdates()
	app.inFlight.Wait()
	app.log.Infow("[bot_app] stopped")
	return nil
}
