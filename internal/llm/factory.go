package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider
// name disables narratives and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	var (
		p   *OpenAIProvider
		err error
	)
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err = NewOpenAIProvider(config)
	case "ollama":
		p, err = NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:      c.Provider,
		Model:         c.Model,
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout,
		StrictClauses: c.StrictClauses,
		MaxTokens:     c.MaxTokens,
	}
}
