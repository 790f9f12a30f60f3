package conversation

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	HistoryCapacity = 20

	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1000
	DefaultSystemPrompt = "Ты полезный ассистент. Отвечай дружелюбно и информативно."

	MinTemperature = 0.1
	MaxTemperature = 2.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 4000
)

func DefaultSettings() Settings {
	return Settings{
		Model:        DefaultModel,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Store держит историю и настройки всех пользователей в памяти процесса.
// Создаётся один раз при старте, закрывать не нужно.
type Store struct {
	mu        sync.Mutex
	histories map[int64]*history
	settings  map[int64]*Settings
	validate  *validator.Validate
	now       func() time.Time
}

func NewStore() *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("known_model", func(fl validator.FieldLevel) bool {
		return IsKnownModel(fl.Field().String())
	}); err != nil {
		panic("conversation: register known_model: " + err.Error())
	}

	return &Store{
		histories: make(map[int64]*history),
		settings:  make(map[int64]*Settings),
		validate:  v,
		now:       time.Now,
	}
}

// вызывать под s.mu
func (s *Store) historyLocked(userID int64) *history {
	h, ok := s.histories[userID]
	if !ok {
		h = newHistory(HistoryCapacity)
		s.histories[userID] = h
	}
	return h
}

// вызывать под s.mu
func (s *Store) settingsLocked(userID int64) *Settings {
	st, ok := s.settings[userID]
	if !ok {
		def := DefaultSettings()
		st = &def
		s.settings[userID] = st
	}
	return st
}

// History — история пользователя, от старых к новым
func (s *Store) History(userID int64) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.historyLocked(userID).entries()
	out := make([]Message, len(entries))
	for i, e := range entries {
		out[i] = Message{Role: e.Role, Content: e.Content}
	}
	return out
}

// Entries — то же, что History, но вместе со временем
func (s *Store) Entries(userID int64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked(userID).entries()
}

// Snapshot — настройки и история под одной блокировкой
func (s *Store) Snapshot(userID int64) (Settings, []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.historyLocked(userID).entries()
	out := make([]Message, len(entries))
	for i, e := range entries {
		out[i] = Message{Role: e.Role, Content: e.Content}
	}
	return *s.settingsLocked(userID), out
}

func (s *Store) Append(userID int64, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.historyLocked(userID).push(Entry{
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	})
}

// AppendExchange пишет вопрос и ответ подряд, без чужих записей между ними
func (s *Store) AppendExchange(userID int64, userText, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.historyLocked(userID)
	now := s.now()
	h.push(Entry{Role: RoleUser, Content: userText, CreatedAt: now})
	h.push(Entry{Role: RoleAssistant, Content: reply, CreatedAt: now})
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.histories[userID]; ok {
		h.clear()
	}
}

// Settings возвращает копию настроек. Менять на месте — через UpdateSettings.
func (s *Store) Settings(userID int64) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.settingsLocked(userID)
}

// UpdateSettings меняет настройки на месте под блокировкой.
// Если результат не проходит валидацию, изменения откатываются.
func (s *Store) UpdateSettings(userID int64, fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.settingsLocked(userID)
	candidate := *st
	fn(&candidate)
	if err := s.validate.Struct(candidate); err != nil {
		return err
	}
	*st = candidate
	return nil
}

func (s *Store) ResetSettings(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.settingsLocked(userID) = DefaultSettings()
}

func (s *Store) SetTemperature(userID int64, raw string) error {
	raw = strings.TrimSpace(raw)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return &RangeError{Setting: "temperature", Value: raw, Min: MinTemperature, Max: MaxTemperature, Err: err}
	}

	return s.setField(userID, "Temperature", func(st *Settings) { st.Temperature = value },
		&RangeError{Setting: "temperature", Value: raw, Min: MinTemperature, Max: MaxTemperature})
}

func (s *Store) SetMaxTokens(userID int64, raw string) error {
	raw = strings.TrimSpace(raw)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return &RangeError{Setting: "max_tokens", Value: raw, Min: MinMaxTokens, Max: MaxMaxTokens, Err: err}
	}

	return s.setField(userID, "MaxTokens", func(st *Settings) { st.MaxTokens = value },
		&RangeError{Setting: "max_tokens", Value: raw, Min: MinMaxTokens, Max: MaxMaxTokens})
}

// SetSystemPrompt сохраняет текст как есть; пустой (или из одних пробелов) не принимается
func (s *Store) SetSystemPrompt(userID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPrompt
	}
	return s.setField(userID, "SystemPrompt", func(st *Settings) { st.SystemPrompt = text }, ErrEmptyPrompt)
}

func (s *Store) SetModel(userID int64, model string) error {
	return s.setField(userID, "Model", func(st *Settings) { st.Model = model }, ErrUnknownModel)
}

// setField проверяет только изменённое поле и при ошибке ничего не трогает
func (s *Store) setField(userID int64, field string, apply func(*Settings), onInvalid error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.settingsLocked(userID)
	candidate := *st
	apply(&candidate)
	if err := s.validate.StructPartial(candidate, field); err != nil {
		return onInvalid
	}
	*st = candidate
	return nil
}

// Users — сколько пользователей уже писали боту
func (s *Store) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(s.histories)+len(s.settings))
	for id := range s.histories {
		seen[id] = struct{}{}
	}
	for id := range s.settings {
		seen[id] = struct{}{}
	}
	return len(seen)
}
