package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig(t *testing.T) {
	logger := zap.NewNop()

	t.Run("defaults to openai", func(t *testing.T) {
		client, err := NewFromConfig(&Config{Endpoint: "http://localhost:8000/v1", Model: "llama3.1-8b"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &Client{}, client)
		assert.Equal(t, "llama3.1-8b", client.GetModel())
	})

	t.Run("anthropic provider", func(t *testing.T) {
		client, err := NewFromConfig(&Config{Provider: "anthropic", Model: "claude-sonnet-4-5", APIKey: "sk-test"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, client)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewFromConfig(&Config{Provider: "cortex", Model: "m"}, logger)
		assert.Error(t, err)
	})
}

func TestNewClient_Validation(t *testing.T) {
	logger := zap.NewNop()

	_, err := NewClient(&Config{Model: "gpt-4o"}, logger)
	assert.Error(t, err)

	_, err = NewClient(&Config{Endpoint: "http://localhost:8000/v1"}, logger)
	assert.Error(t, err)
}

func TestNewAnthropicClient_Validation(t *testing.T) {
	logger := zap.NewNop()

	_, err := NewAnthropicClient(&Config{Model: "claude-sonnet-4-5"}, logger)
	assert.Error(t, err)

	_, err = NewAnthropicClient(&Config{APIKey: "sk-test"}, logger)
	assert.Error(t, err)
}
