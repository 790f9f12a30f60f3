package telegram

import (
	"context"
	"errors"

	"github.com/Vovarama1992/gpt_relay/internal/ai"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// лимит Telegram на длину одного сообщения
const maxMessageLen = 4096

func (app *BotApp) handleText(ctx context.Context, bot Sender, msg *tgbotapi.Message, tgID int64) {
	chatID := msg.Chat.ID

	app.log.Infow("[text] start", "tg", tgID)

	// === 0. показываем 'печатает…' ===
	if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		app.log.Debugw("[text] typing action fail", "error", err)
	}

	// === 1. GPT ===
	reply, err := app.AiService.GetReply(ctx, tgID, msg.Text)
	if err != nil {
		app.log.Warnw("[text] ai reply fail", "tg", tgID, "error", err)
		app.reply(bot, chatID, failureText(err))
		return
	}

	if reply == "" {
		app.reply(bot, chatID, MsgEmptyReply)
		return
	}

	// === 2. отправляем ответ, длинный — кусками ===
	for _, part := range splitMessage(reply, maxMessageLen) {
		app.reply(bot, chatID, part)
	}

	app.log.Infow("[text] done", "tg", tgID)
}

func failureText(err error) string {
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, ai.ErrAPI):
		return MsgAPIError
	default:
		return MsgUnexpectedError
	}
}

// splitMessage режет по рунам, чтобы не разорвать UTF-8
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	parts := make([]string, 0, len(runes)/limit+1)
	for start := 0; start < len(runes); start += limit {
		end := min(start+limit, len(runes))
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
