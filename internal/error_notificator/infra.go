package error_notificator

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender — та часть *tgbotapi.BotAPI, которая нужна для отправки
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	mu          sync.RWMutex
	bot         sender
	adminChatID int64
}

// NewInfra — adminChatID == 0 отключает уведомления
func NewInfra(adminChatID int64) *Infra {
	return &Infra{adminChatID: adminChatID}
}

// SetBot — позволяет передать бота ПОСЛЕ того, как он инициализировался
func (i *Infra) SetBot(bot sender) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bot = bot
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	i.mu.RLock()
	bot := i.bot
	i.mu.RUnlock()

	if i.adminChatID == 0 || bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	if _, sendErr := bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		return fmt.Errorf("notify admin %d: %w", i.adminChatID, sendErr)
	}
	return nil
}
