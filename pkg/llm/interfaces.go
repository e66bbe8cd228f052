// Package llm provides hosted LLM completion clients.
package llm

import (
	"context"
)

// LLMClient defines the interface for the hosted inference call used by the
// sensitivity classifier. Use this interface for dependency injection to
// enable mocking in tests.
type LLMClient interface {
	// Complete sends a prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure implementations satisfy LLMClient at compile time.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
	_ LLMClient = (*MockLLMClient)(nil)
)
