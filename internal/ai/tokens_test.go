package ai

import (
	"testing"

	"github.com/Vovarama1992/gpt_relay/internal/conversation"
	"github.com/stretchr/testify/assert"
)

func TestTokenCounterEstimateWithoutEncoder(t *testing.T) {
	c := &TokenCounter{}

	assert.Equal(t, 0, c.Count(nil))
	assert.Equal(t, tokensPerMessage+2, c.Count([]conversation.Message{
		{Role: conversation.RoleUser, Content: "12345678"},
	}))
	// считаем руны, а не байты
	assert.Equal(t, tokensPerMessage+1, c.Count([]conversation.Message{
		{Role: conversation.RoleUser, Content: "при"},
	}))
}
