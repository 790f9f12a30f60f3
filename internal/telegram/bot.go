package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// runBotLoop — главный цикл получения апдейтов.
// Каждый апдейт в своей горутине: пока один пользователь ждёт GPT, остальные обслуживаются.
func (app *BotApp) runBotLoop(ctx context.Context, updates tgbotapi.UpdatesChannel, bot Sender) {
	// начатые ходы доживают до конца даже при остановке
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			tgID := extractTelegramID(update)
			if tgID == 0 {
				continue
			}
			app.log.Debugw("[bot_touch]", "fromTG", tgID, "updateID", update.UpdateID)

			app.inFlight.Add(1)
			go func() {
				defer app.inFlight.Done()
				app.dispatchUpdate(handlerCtx, bot, tgID, update)
			}()
		}
	}
}

func (app *BotApp) dispatchUpdate(ctx context.Context, bot Sender, tgID int64, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			app.log.Errorw("[bot_loop] handler panic", "tg", tgID, "panic", r)
		}
	}()

	switch {
	case update.Message != nil:
		app.handleMessage(ctx, bot, update.Message, tgID)
	case update.CallbackQuery != nil:
		app.countUpdate("callback")
		app.handleCallback(ctx, bot, update.CallbackQuery, tgID)
	}
}

func (app *BotApp) handleMessage(ctx context.Context, bot Sender, msg *tgbotapi.Message, tgID int64) {
	if msg.IsCommand() {
		app.countUpdate("command")
		app.handleCommand(ctx, bot, msg, tgID)
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		app.countUpdate("other")
		app.reply(bot, msg.Chat.ID, MsgTextOnly)
		return
	}

	app.countUpdate("text")
	app.handleText(ctx, bot, msg, tgID)
}

func (app *BotApp) handleCommand(ctx context.Context, bot Sender, msg *tgbotapi.Message, tgID int64) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	app.log.Infow("[command]", "tg", tgID, "command", msg.Command())

	switch msg.Command() {
	case "start":
		out := tgbotapi.NewMessage(chatID, MsgWelcome)
		out.ReplyMarkup = startKeyboard()
		app.send(bot, out)
	case "help":
		app.reply(bot, chatID, MsgHelp)
	case "settings":
		app.reply(bot, chatID, settingsText(app.Store.Settings(tgID)))
	case "model":
		app.showModelPicker(bot, chatID)
	case "temp":
		app.setTemperature(bot, chatID, tgID, args)
	case "maxtokens":
		app.setMaxTokens(bot, chatID, tgID, args)
	case "system":
		app.setSystemPrompt(bot, chatID, tgID, args)
	case "clear":
		app.Store.Clear(tgID)
		app.reply(bot, chatID, MsgHistoryCleared)
	case "stats":
		app.reply(bot, chatID, app.statsText(tgID))
	case "reset":
		app.Store.ResetSettings(tgID)
		app.reply(bot, chatID, MsgSettingsReset)
	default:
		app.reply(bot, chatID, MsgUnknownCommand)
	}
}

func (app *BotApp) showModelPicker(bot Sender, chatID int64) {
	out := tgbotapi.NewMessage(chatID, MsgChooseModel)
	out.ReplyMarkup = modelKeyboard()
	app.send(bot, out)
}

func (app *BotApp) reply(bot Sender, chatID int64, text string) {
	app.send(bot, tgbotapi.NewMessage(chatID, text))
}

func (app *BotApp) send(bot Sender, c tgbotapi.Chattable) {
	if _, err := bot.Send(c); err != nil {
		app.log.Warnw("[bot] send fail", "error", err)
	}
}

func (app *BotApp) countUpdate(kind string) {
	if app.Metrics != nil {
		app.Metrics.UpdatesTotal.WithLabelValues(kind).Inc()
	}
}

func extractTelegramID(u tgbotapi.Update) int64 {
	switch {
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	default:
		return 0
	}
}
