package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ollamaBaseURL is the OpenAI-compatible endpoint of a local Ollama
const ollamaBaseURL = "http://localhost:11434/v1"

// OpenAIProvider talks to the OpenAI chat completions API or any
// compatible endpoint (Ollama, vLLM, gateways)
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates a provider for api.openai.com or config.BaseURL
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "openai",
	}, nil
}

// NewOllamaProvider creates a provider for a local Ollama server through
// its OpenAI-compatible API. Ollama ignores the API key.
func NewOllamaProvider(config Config) (*OpenAIProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama requires a model name (e.g. llama3.1)")
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = ollamaBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "ollama",
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable lists models as a lightweight reachability and auth check
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()
	_, err := p.client.ListModels(ctx)
	return err == nil
}

func (p *OpenAIProvider) timeout() time.Duration {
	if p.config.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.config.Timeout) * time.Second
}

// Summarize generates a narrative with the chat completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if req.Assessment == nil {
		return nil, fmt.Errorf("no assessment to summarize")
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Assessment, req.ClauseIDs)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 800
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain contract lock-in risk assessments and cite only the clause ids you are given.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	cited := extractClauseIDs(summary, req.Assessment.Vendor)

	if p.config.StrictClauses {
		for _, id := range cited {
			if !contains(req.ClauseIDs, id) {
				return nil, fmt.Errorf("CITATION LEAK: narrative cited unknown clause: %s", id)
			}
		}
	}

	return &SummarizeResponse{
		Summary:      summary,
		CitedClauses: cited,
		Model:        model,
		TokensUsed:   resp.Usage.TotalTokens,
	}, nil
}

// extractClauseIDs finds "{vendor}_{n}" references in text, deduplicated
// in order of first appearance
func extractClauseIDs(text, vendor string) []string {
	if vendor == "" {
		return nil
	}
	pattern := regexp.MustCompile(regexp.QuoteMeta(vendor) + `_\d+`)

	seen := make(map[string]bool)
	var unique []string
	for _, id := range pattern.FindAllString(text, -1) {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
