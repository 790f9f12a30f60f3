package telegram

import (
	"fmt"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// callback data
const (
	cbSettings    = "settings"
	cbStats       = "stats"
	cbClear       = "clear"
	cbChangeModel = "change_model"
	cbModelPrefix = "model_"
)

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔧 Настройки", cbSettings),
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", cbStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Сменить модель", cbChangeModel),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Очистить историю", cbClear),
		),
	)
}

func modelKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range conversation.Models() {
		btn := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s - %s", m.ID, m.Title),
			cbModelPrefix+m.ID,
		)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
