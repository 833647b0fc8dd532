package llm

import (
	"fmt"
	"strings"
)

// Supported provider names.
const (
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client based on provider configuration.
// An empty provider means auto-scheduling runs without a model; callers
// handle that before reaching here.
func NewClient(provider, model, baseURL, apiKeyEnv string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return NewOpenAIClient(model, baseURL, apiKeyEnv)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
