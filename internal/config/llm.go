package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/llm"
)

// providerKeyEnv lists the conventional API key variable per provider.
var providerKeyEnv = map[string]string{
	llm.ProviderGemini:    "GEMINI_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// LoadLLMConfig builds the extraction gateway configuration. The API key is
// read from llm.<provider>_api_key, then the provider's usual environment
// variable.
func LoadLLMConfig() (llm.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		provider = llm.ProviderGemini
	}

	envVar, ok := providerKeyEnv[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, provider)
	}

	apiKey := viper.GetString("llm." + provider + "_api_key")
	if apiKey == "" {
		apiKey = os.Getenv(envVar)
	}
	if apiKey == "" {
		return llm.Config{}, common.NewUserError(
			fmt.Sprintf("Set %s or llm.%s_api_key in the config file", envVar, provider),
			fmt.Errorf("%w: %s API key", common.ErrMissingConfig, provider),
		)
	}

	return llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Timeout:     viper.GetDuration("llm.timeout"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}, nil
}

// ExportDir returns the configured CSV export directory, defaulting to the
// working directory.
func ExportDir() string {
	if dir := viper.GetString("export.dir"); dir != "" {
		return ExpandPath(dir)
	}
	return "."
}
