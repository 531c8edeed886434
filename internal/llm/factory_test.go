package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		provider string
		wantType string
	}{
		{"openai", "*llm.OpenAIClient"},
		{"OpenAI", "*llm.OpenAIClient"},
		{"ollama", "*llm.OpenAIClient"},
		{"claude", "*llm.ClaudeClient"},
		{"anthropic", "*llm.ClaudeClient"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewClient(context.Background(), config.LLMConfig{
				Provider: tt.provider,
				Model:    "test-model",
				APIKey:   "test-key",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, fmt.Sprintf("%T", c))
		})
	}
}

func TestNewClient_Unknown(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "doesnotexist"})
	require.Error(t, err)
	assert.Equal(t, "unsupported llm provider: doesnotexist", err.Error())

	_, err = NewClient(context.Background(), config.LLMConfig{})
	require.Error(t, err)
	assert.Equal(t, "llm provider not specified", err.Error())
}

func TestClaudeClient_DefaultMaxTokens(t *testing.T) {
	c := NewClaudeClient("key", "", Options{Model: "claude-3-5-haiku-latest"})
	assert.Equal(t, defaultMaxTokens, c.opts.MaxTokens)
}

func TestInvocationError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := error(&InvocationError{Stage: "generate_query", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "model invocation failed during generate_query: deadline exceeded", err.Error())

	var invErr *InvocationError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &invErr)
	assert.Equal(t, "generate_query", invErr.Stage)
}
