package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (app *BotApp) handleCallback(
	ctx context.Context,
	bot Sender,
	cb *tgbotapi.CallbackQuery,
	tgID int64,
) {
	// всегда отвечаем Telegram
	if _, err := bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		app.log.Debugw("[callback] answer fail", "error", err)
	}

	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	app.log.Infow("[callback]", "tg", tgID, "data", data)

	switch {
	case data == cbSettings:
		app.reply(bot, chatID, settingsText(app.Store.Settings(tgID)))

	case data == cbStats:
		app.reply(bot, chatID, app.statsText(tgID))

	case data == cbClear:
		app.Store.Clear(tgID)
		app.send(bot, tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "🧹 История очищена!"))

	case data == cbChangeModel:
		app.showModelPicker(bot, chatID)

	case strings.HasPrefix(data, cbModelPrefix):
		text := app.setModel(tgID, strings.TrimPrefix(data, cbModelPrefix))
		app.send(bot, tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, text))

	default:
		app.log.Warnw("[callback] unknown data", "tg", tgID, "data", data)
		app.reply(bot, chatID, MsgUnexpectedError)
	}
}
