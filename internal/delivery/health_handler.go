package delivery

import (
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/dustin/go-humanize"
)

type HealthHandler struct {
	store   *conversation.Store
	started time.Time
}

func NewHealthHandler(store *conversation.Store, started time.Time) *HealthHandler {
	return &HealthHandler{store: store, started: started}
}

// GET /ping — для хостинга, который ждёт открытый порт
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, map[string]any{
		"status":  "ok",
		"users":   h.store.Users(),
		"uptime":  strings.TrimSpace(humanize.RelTime(h.started, time.Now(), "", "")),
	})
}
