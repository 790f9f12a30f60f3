package telegram

import (
	"fmt"
	"strings"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/dustin/go-humanize"
)

const (
	MsgWelcome = "🤖 Добро пожаловать в AI-бота на базе OpenAI!\n\n" +
		"Я использую технологии ChatGPT для общения. Вот что я умею:\n\n" +
		"📝 Основные возможности:\n" +
		"• Отвечать на любые вопросы\n" +
		"• Помогать с написанием кода\n" +
		"• Переводить тексты\n" +
		"• Объяснять сложные темы\n" +
		"• Поддерживать контекст разговора\n\n" +
		"🔧 Доступные команды:\n" +
		"/help - подробная помощь\n" +
		"/settings - настройки модели\n" +
		"/clear - очистить историю\n" +
		"/model - сменить модель\n" +
		"/stats - статистика использования\n" +
		"/system - изменить системный промпт\n\n" +
		"Просто напиши мне сообщение, и я отвечу!"

	MsgHelp = "🔍 Подробная справка\n\n" +
		"Основные команды:\n" +
		"/settings - настройка параметров генерации\n" +
		"/model - выбор модели GPT\n" +
		"/system - изменение системного промпта\n" +
		"/clear - очистка истории диалога\n" +
		"/stats - просмотр статистики\n" +
		"/reset - сбросить настройки\n\n" +
		"Параметры настройки:\n" +
		"• Модель: выбор между GPT-3.5 и GPT-4\n" +
		"• Температура: креативность ответов (0.1 - 2.0)\n" +
		"• Max tokens: максимальная длина ответа (100 - 4000)\n" +
		"• System prompt: инструкция для поведения бота\n\n" +
		"Советы по использованию:\n" +
		"• Бот помнит последние 20 сообщений диалога\n" +
		"• Для сложных задач используйте GPT-4\n" +
		"• Для быстрых ответов - GPT-3.5\n" +
		"• Температура 0.7 оптимальна для большинства задач"

	MsgChooseModel    = "Выберите модель:"
	MsgHistoryCleared = "🧹 История диалога очищена!"
	MsgSettingsReset  = "Настройки сброшены."
	MsgUnknownCommand = "Неизвестная команда. /help — список команд."
	MsgTextOnly       = "📎 Я понимаю только текстовые сообщения."

	MsgTempUsage           = "Использование: /temp [0.1-2.0]"
	MsgTempOutOfRange      = "❌ Температура должна быть от 0.1 до 2.0"
	MsgMaxTokensUsage      = "Использование: /maxtokens [100-4000]"
	MsgMaxTokensOutOfRange = "❌ Max tokens должен быть от 100 до 4000"
	MsgSystemUsage         = "Использование: /system [ваш промпт]\nНапример: /system Ты эксперт по Python программированию"
	MsgSystemUpdated       = "✅ System prompt обновлен!"
	MsgUnknownModel        = "❌ Такой модели нет в списке."

	MsgRateLimited     = "⚠️ Превышен лимит запросов к API. Пожалуйста, подождите немного."
	MsgAPIError        = "⚠️ Ошибка при обращении к OpenAI. Попробуйте позже."
	MsgUnexpectedError = "⚠️ Произошла непредвиденная ошибка."
	MsgEmptyReply      = "❌ Не удалось получить ответ от OpenAI. Попробуйте позже."
)

const promptPreviewLen = 50

func settingsText(s conversation.Settings) string {
	prompt := []rune(s.SystemPrompt)
	preview := string(prompt)
	if len(prompt) > promptPreviewLen {
		preview = string(prompt[:promptPreviewLen]) + "..."
	}

	return fmt.Sprintf(
		"⚙️ Текущие настройки\n\n"+
			"Модель: %s\n"+
			"Температура: %s\n"+
			"Max tokens: %d\n"+
			"System prompt: %s\n\n"+
			"Используйте команды для изменения:\n"+
			"/temp [0.1-2.0] - изменить температуру\n"+
			"/maxtokens [число] - изменить max tokens\n"+
			"/model - выбрать модель",
		s.Model, formatFloat(s.Temperature), s.MaxTokens, preview,
	)
}

func (app *BotApp) statsText(tgID int64) string {
	entries := app.Store.Entries(tgID)
	settings := app.Store.Settings(tgID)

	var b strings.Builder
	b.WriteString("📊 Статистика\n\n")
	fmt.Fprintf(&b, "Сообщений в истории: %d\n", len(entries))
	fmt.Fprintf(&b, "Модель: %s\n", settings.Model)
	fmt.Fprintf(&b, "Температура: %s\n", formatFloat(settings.Temperature))

	if app.Tokens != nil {
		fmt.Fprintf(&b, "Контекст истории: ~%s токенов\n", humanize.Comma(int64(app.Tokens.Count(app.Store.History(tgID)))))
	}
	if len(entries) > 0 {
		fmt.Fprintf(&b, "Последнее сообщение: %s\n", humanize.Time(entries[len(entries)-1].CreatedAt))
	}

	b.WriteString("\nИспользовано токенов: информация доступна в OpenAI Dashboard")
	return b.String()
}
