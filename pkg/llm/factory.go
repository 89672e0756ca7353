package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewTextClient creates a text client for the configured provider.
// Returns TextClient interface to enable dependency injection of mocks.
func NewTextClient(cfg *Config, logger *zap.Logger) (TextClient, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
