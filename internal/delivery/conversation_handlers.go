package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/go-chi/chi/v5"
)

type ConversationHandler struct {
	store *conversation.Store
	log   *logger.ZapLogger
}

func NewConversationHandler(store *conversation.Store, log *logger.ZapLogger) *ConversationHandler {
	return &ConversationHandler{
		store: store,
		log:   log,
	}
}

func telegramIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	tid, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil || tid == 0 {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return 0, false
	}
	return tid, true
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /users/{telegram_id}/history
func (h *ConversationHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	tid, ok := telegramIDParam(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, h.store.Entries(tid)); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "encode history", Service: "gpt_relay", Error: err})
	}
}

// DELETE /users/{telegram_id}/history
func (h *ConversationHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	tid, ok := telegramIDParam(w, r)
	if !ok {
		return
	}

	h.store.Clear(tid)
	h.log.Log(logger.LogEntry{Level: "info", Message: "history cleared via admin api: " + strconv.FormatInt(tid, 10), Service: "gpt_relay"})
	w.WriteHeader(http.StatusNoContent)
}

// GET /users/{telegram_id}/settings
func (h *ConversationHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	tid, ok := telegramIDParam(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, h.store.Settings(tid)); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "encode settings", Service: "gpt_relay", Error: err})
	}
}
