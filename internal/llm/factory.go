package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/sirupsen/logrus"
)

func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)
	opts := Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, opts), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, opts)

	case "claude", "anthropic":
		return NewClaudeClient(cfg.APIKey, cfg.BaseURL, opts), nil

	case "ollama":
		// Ollama is served through its OpenAI-compatible API.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		logrus.WithField("base_url", baseURL).Debug("Initializing Ollama via OpenAI-compatible API")

		// API key is ignored by Ollama but required by the client config.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, baseURL, opts), nil

	case "":
		return nil, fmt.Errorf("llm provider not specified")

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
