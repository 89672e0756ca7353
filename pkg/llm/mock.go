package llm

import "context"

// MockTextClient is a configurable mock for testing model-backed functionality.
// Set the function fields to control behavior in tests.
type MockTextClient struct {
	// GenerateTextFunc is called when GenerateText is invoked.
	// If nil, returns empty string and nil error.
	GenerateTextFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	GenerateTextCalls int
	LastPrompt        string
	LastSystemMessage string
}

// NewMockTextClient creates a new mock with sensible defaults.
func NewMockTextClient() *MockTextClient {
	return &MockTextClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateText implements TextClient.
func (m *MockTextClient) GenerateText(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateTextCalls++
	m.LastPrompt = prompt
	m.LastSystemMessage = systemMessage
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// GetModel implements TextClient.
func (m *MockTextClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements TextClient.
func (m *MockTextClient) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

// Reset clears call tracking.
func (m *MockTextClient) Reset() {
	m.GenerateTextCalls = 0
	m.LastPrompt = ""
	m.LastSystemMessage = ""
}

// Ensure MockTextClient implements TextClient at compile time.
var _ TextClient = (*MockTextClient)(nil)
