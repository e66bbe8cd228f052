package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewFromConfig creates the LLM client named by cfg.Provider.
// An empty provider defaults to the OpenAI-compatible client, which also
// covers local vLLM/Ollama-style endpoints.
func NewFromConfig(cfg *Config, logger *zap.Logger) (LLMClient, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
