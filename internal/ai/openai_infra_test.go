package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() CompletionRequest {
	return CompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []conversation.Message{
			{Role: conversation.RoleSystem, Content: "sys"},
			{Role: conversation.RoleUser, Content: "hi"},
		},
		Temperature:      0.7,
		MaxTokens:        1000,
		TopP:             TopP,
		FrequencyPenalty: FrequencyPenalty,
		PresencePenalty:  PresencePenalty,
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-3.5-turbo",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL+"/v1")
	reply, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)

	assert.Equal(t, "gpt-3.5-turbo", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
	assert.InDelta(t, 1000, body["max_tokens"], 0)
	assert.InDelta(t, 0.95, body["top_p"], 1e-6)
	assert.InDelta(t, 0.3, body["frequency_penalty"], 1e-6)
	assert.InDelta(t, 0.3, body["presence_penalty"], 1e-6)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hi", msgs[1].(map[string]any)["content"])
}

func TestOpenAIClientRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("k", srv.URL+"/v1").Complete(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrAPI)
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[]}`)
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("k", srv.URL+"/v1").Complete(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrUnexpected)
}

func TestOpenAIClientBreakerOpensAfterServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", srv.URL+"/v1")
	for i := 0; i < 5; i++ {
		_, err := c.Complete(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrAPI)
	}

	_, err := c.Complete(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrAPI)
	assert.Equal(t, int32(5), hits.Load(), "open breaker must not reach the server")
}
