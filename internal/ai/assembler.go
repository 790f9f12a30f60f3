package ai

import "github.com/Vovarama1992/gpt_relay/internal/conversation"

// ContextWindow — сколько последних записей истории идёт в запрос
const ContextWindow = 10

// Assembler собирает запрос из состояния Store и пишет в историю удачные обмены
type Assembler struct {
	store *conversation.Store
}

func NewAssembler(store *conversation.Store) *Assembler {
	return &Assembler{store: store}
}

// BuildRequest: системный промпт, последние ContextWindow записей истории, новое сообщение.
// Store не меняет. Возвращает и те настройки, по которым собран запрос.
func (a *Assembler) BuildRequest(telegramID int64, userText string) (conversation.Settings, []conversation.Message) {
	settings, history := a.store.Snapshot(telegramID)

	if len(history) > ContextWindow {
		history = history[len(history)-ContextWindow:]
	}

	messages := make([]conversation.Message, 0, len(history)+2)
	messages = append(messages, conversation.Message{
		Role:    conversation.RoleSystem,
		Content: settings.SystemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, conversation.Message{
		Role:    conversation.RoleUser,
		Content: userText,
	})
	return settings, messages
}

// RecordExchange вызывается только после успешного ответа API
func (a *Assembler) RecordExchange(telegramID int64, userText, reply string) {
	a.store.AppendExchange(telegramID, userText, reply)
}
