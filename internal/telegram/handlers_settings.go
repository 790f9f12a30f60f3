package telegram

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
)

func (app *BotApp) setTemperature(bot Sender, chatID, tgID int64, args string) {
	if args == "" {
		app.reply(bot, chatID, MsgTempUsage)
		return
	}

	err := app.Store.SetTemperature(tgID, args)
	var rangeErr *conversation.RangeError
	switch {
	case err == nil:
		app.reply(bot, chatID, fmt.Sprintf("✅ Температура установлена на %s",
			formatFloat(app.Store.Settings(tgID).Temperature)))
	case errors.As(err, &rangeErr) && rangeErr.IsParseError():
		app.reply(bot, chatID, MsgTempUsage)
	default:
		app.reply(bot, chatID, MsgTempOutOfRange)
	}
}

func (app *BotApp) setMaxTokens(bot Sender, chatID, tgID int64, args string) {
	if args == "" {
		app.reply(bot, chatID, MsgMaxTokensUsage)
		return
	}

	err := app.Store.SetMaxTokens(tgID, args)
	var rangeErr *conversation.RangeError
	switch {
	case err == nil:
		app.reply(bot, chatID, fmt.Sprintf("✅ Max tokens установлен на %d", app.Store.Settings(tgID).MaxTokens))
	case errors.As(err, &rangeErr) && rangeErr.IsParseError():
		app.reply(bot, chatID, MsgMaxTokensUsage)
	default:
		app.reply(bot, chatID, MsgMaxTokensOutOfRange)
	}
}

func (app *BotApp) setSystemPrompt(bot Sender, chatID, tgID int64, args string) {
	if err := app.Store.SetSystemPrompt(tgID, args); err != nil {
		app.reply(bot, chatID, MsgSystemUsage)
		return
	}
	app.reply(bot, chatID, MsgSystemUpdated)
}

func (app *BotApp) setModel(tgID int64, model string) string {
	if err := app.Store.SetModel(tgID, model); err != nil {
		return MsgUnknownModel
	}
	return fmt.Sprintf("✅ Модель изменена на %s", model)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
