// Package llm provides access to external text-generation models.
package llm

import "context"

// TextClient defines the interface for text-generation operations.
// Use this interface for dependency injection to enable mocking in tests.
type TextClient interface {
	// GenerateText generates a completion for the given prompt.
	GenerateText(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Config holds configuration for creating a text client.
type Config struct {
	Provider string // "openai" (any OpenAI-compatible endpoint) or "anthropic"
	Endpoint string // Base URL, e.g. "https://api.openai.com/v1"
	Model    string // Model name, e.g. "gpt-4o"
	APIKey   string // Optional for local endpoints
}

// Provider constants.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)
