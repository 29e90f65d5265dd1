package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/muster/internal/common"
)

// Supported providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		return newGeminiClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}

// enforcesSchema reports whether the provider constrains output to the
// response schema, so the prompt need not spell the shape out.
func enforcesSchema(provider string) bool {
	switch strings.ToLower(provider) {
	case ProviderGemini, ProviderOpenAI, "":
		return true
	default:
		return false
	}
}
