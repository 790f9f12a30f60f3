package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/gpt_relay/internal/ai"
	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/Vovarama1992/gpt_relay/internal/metrics"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testChat = int64(100)
	testUser = int64(7)
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

type fakeAI struct {
	store *conversation.Store
	reply string
	err   error
	calls int
}

func (f *fakeAI) GetReply(_ context.Context, tgID int64, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	ai.NewAssembler(f.store).RecordExchange(tgID, text, f.reply)
	return f.reply, nil
}

type fixedTokens int

func (n fixedTokens) Count([]conversation.Message) int { return int(n) }

func newTestApp() (*BotApp, *fakeAI, *fakeSender) {
	store := conversation.NewStore()
	aiSvc := &fakeAI{store: store, reply: "pong"}
	app := NewBotApp(aiSvc, store, fixedTokens(1234), metrics.NewMetrics(), zap.NewNop().Sugar())
	return app, aiSvc, &fakeSender{}
}

func textUpdate(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testUser},
		Chat:      &tgbotapi.Chat{ID: testChat},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmdLen := len(text)
		if i := strings.IndexByte(text, ' '); i > 0 {
			cmdLen = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: testUser},
			Message: &tgbotapi.Message{MessageID: 55, Chat: &tgbotapi.Chat{ID: testChat}},
			Data:    data,
		},
	}
}

func dispatch(app *BotApp, bot *fakeSender, u tgbotapi.Update) {
	app.dispatchUpdate(context.Background(), bot, extractTelegramID(u), u)
}

func TestTextMessageRelaysReply(t *testing.T) {
	app, aiSvc, bot := newTestApp()

	dispatch(app, bot, textUpdate("hi"))

	assert.Equal(t, 1, aiSvc.calls)
	assert.Equal(t, []string{"pong"}, bot.texts())
	require.Len(t, bot.requests, 1)
	action, ok := bot.requests[0].(tgbotapi.ChatActionConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.ChatTyping, action.Action)

	assert.Len(t, app.Store.History(testUser), 2)
	assert.Equal(t, float64(1), testutil.ToFloat64(app.Metrics.UpdatesTotal.WithLabelValues("text")))
}

func TestLongReplyIsSplit(t *testing.T) {
	app, aiSvc, bot := newTestApp()
	aiSvc.reply = strings.Repeat("я", maxMessageLen*2+10)

	dispatch(app, bot, textUpdate("long please"))

	texts := bot.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, maxMessageLen, len([]rune(texts[0])))
	assert.Equal(t, 10, len([]rune(texts[2])))
}

func TestCompletionFailuresHaveDistinctTexts(t *testing.T) {
	cases := map[error]string{
		fmt.Errorf("%w: x", ai.ErrRateLimited): MsgRateLimited,
		fmt.Errorf("%w: x", ai.ErrAPI):         MsgAPIError,
		fmt.Errorf("%w: x", ai.ErrUnexpected):  MsgUnexpectedError,
	}

	for err, want := range cases {
		app, aiSvc, bot := newTestApp()
		aiSvc.err = err

		dispatch(app, bot, textUpdate("hi"))

		assert.Equal(t, []string{want}, bot.texts())
		assert.Empty(t, app.Store.History(testUser))
	}
}

func TestEmptyReply(t *testing.T) {
	app, aiSvc, bot := newTestApp()
	aiSvc.reply = ""

	dispatch(app, bot, textUpdate("hi"))

	assert.Equal(t, []string{MsgEmptyReply}, bot.texts())
}

func TestSettingCommands(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/temp", MsgTempUsage},
		{"/temp abc", MsgTempUsage},
		{"/temp 2.5", MsgTempOutOfRange},
		{"/temp 1.2", "✅ Температура установлена на 1.2"},
		{"/maxtokens 50", MsgMaxTokensOutOfRange},
		{"/maxtokens lots", MsgMaxTokensUsage},
		{"/maxtokens 2000", "✅ Max tokens установлен на 2000"},
		{"/system", MsgSystemUsage},
		{"/system Ты эксперт по Go", MsgSystemUpdated},
	}

	app, _, bot := newTestApp()
	for _, tc := range cases {
		dispatch(app, bot, textUpdate(tc.text))
		texts := bot.texts()
		assert.Equal(t, tc.want, texts[len(texts)-1], tc.text)
	}

	st := app.Store.Settings(testUser)
	assert.Equal(t, 1.2, st.Temperature)
	assert.Equal(t, 2000, st.MaxTokens)
	assert.Equal(t, "Ты эксперт по Go", st.SystemPrompt)
}

func TestClearAndResetCommands(t *testing.T) {
	app, _, bot := newTestApp()
	app.Store.Append(testUser, conversation.RoleUser, "old")
	require.NoError(t, app.Store.SetModel(testUser, "gpt-4"))

	dispatch(app, bot, textUpdate("/clear"))
	dispatch(app, bot, textUpdate("/reset"))

	assert.Equal(t, []string{MsgHistoryCleared, MsgSettingsReset}, bot.texts())
	assert.Empty(t, app.Store.History(testUser))
	assert.Equal(t, conversation.DefaultSettings(), app.Store.Settings(testUser))
}

func TestStartShowsMenu(t *testing.T) {
	app, _, bot := newTestApp()

	dispatch(app, bot, textUpdate("/start"))

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, MsgWelcome, msg.Text)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, cbSettings, *kb.InlineKeyboard[0][0].CallbackData)
}

func TestSettingsAndStatsText(t *testing.T) {
	app, _, bot := newTestApp()
	require.NoError(t, app.Store.SetSystemPrompt(testUser, strings.Repeat("п", 60)))
	app.Store.Append(testUser, conversation.RoleUser, "x")

	dispatch(app, bot, textUpdate("/settings"))
	dispatch(app, bot, textUpdate("/stats"))

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Модель: gpt-3.5-turbo")
	assert.Contains(t, texts[0], "System prompt: "+strings.Repeat("п", 50)+"...")
	assert.Contains(t, texts[1], "Сообщений в истории: 1")
	assert.Contains(t, texts[1], "~1,234 токенов")
	assert.Contains(t, texts[1], "Последнее сообщение: now")
}

func TestModelCallbacks(t *testing.T) {
	app, _, bot := newTestApp()

	dispatch(app, bot, callbackUpdate(cbChangeModel))
	require.Len(t, bot.sent, 1)
	picker := bot.sent[0].(tgbotapi.MessageConfig)
	kb := picker.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, kb.InlineKeyboard, len(conversation.Models()))

	dispatch(app, bot, callbackUpdate("model_gpt-4"))
	dispatch(app, bot, callbackUpdate("model_gpt-9000"))

	texts := bot.texts()
	assert.Equal(t, "✅ Модель изменена на gpt-4", texts[1])
	assert.Equal(t, MsgUnknownModel, texts[2])
	assert.Equal(t, "gpt-4", app.Store.Settings(testUser).Model)

	// на каждый callback отвечаем Telegram
	assert.Len(t, bot.requests, 3)
}

func TestClearCallbackEditsMessage(t *testing.T) {
	app, _, bot := newTestApp()
	app.Store.Append(testUser, conversation.RoleUser, "old")

	dispatch(app, bot, callbackUpdate(cbClear))

	require.Len(t, bot.sent, 1)
	edit, ok := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 55, edit.MessageID)
	assert.Empty(t, app.Store.History(testUser))
}

func TestRunBotLoopStopsOnContextCancel(t *testing.T) {
	app, aiSvc, bot := newTestApp()
	updates := make(chan tgbotapi.Update, 2)
	updates <- textUpdate("hi")
	updates <- tgbotapi.Update{UpdateID: 3} // без отправителя — пропускаем

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.runBotLoop(ctx, updates, bot)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(bot.texts()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	app.inFlight.Wait()
	assert.Equal(t, 1, aiSvc.calls)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"abc"}, splitMessage("abc", 5))
	assert.Equal(t, []string{"abcde"}, splitMessage("abcde", 5))
	assert.Equal(t, []string{"ab", "cd", "e"}, splitMessage("abcde", 2))
	assert.Equal(t, []string{"пр", "ив", "ет"}, splitMessage("привет", 2))
}
