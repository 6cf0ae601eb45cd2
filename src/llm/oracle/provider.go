package oracle

import (
	"context"
	"fmt"

	"redox_tutor/src/metrics"
	"redox_tutor/src/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

var defaultModels = map[string]string{
	"gemini":   "gemini-2.5-flash",
	"openai":   "openai/gpt-4o-mini",
	"ollama":   "qwen2.5:7b",
	"deepseek": "deepseek-chat",
	"ark":      "doubao-seed-1-6-250615",
}

var defaultBaseURLs = map[string]string{
	"openai": "https://openrouter.ai/api/v1",
	"ollama": "http://localhost:11434",
}

// New builds the oracle for config.Provider
func New(ctx context.Context, config model.OracleConfig, m *metrics.Metrics) (Oracle, error) {
	if config.Provider == "gemini" {
		gemini, err := NewGeminiOracle(ctx, config, m)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}

	chatModel, err := newChatModel(ctx, config)
	if err != nil {
		return nil, err
	}
	chain, err := NewChainOracle(ctx, config.Provider, chatModel, config.Timeout, m)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func newChatModel(ctx context.Context, config model.OracleConfig) (einomodel.BaseChatModel, error) {
	name := config.Model
	if name == "" {
		name = defaultModels[config.Provider]
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[config.Provider]
	}
	maxTokens := config.MaxTokens
	temperature := float32(config.Temperature)

	switch config.Provider {
	case "openai":
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     baseURL,
			Model:       name,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return chatModel, nil

	case "ollama":
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   name,
			Timeout: config.Timeout,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  maxTokens,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return chatModel, nil

	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     baseURL,
			Model:       name,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Timeout:     config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return chatModel, nil

	case "ark":
		timeout := config.Timeout
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     baseURL,
			Model:       name,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     &timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return chatModel, nil
	}

	return nil, fmt.Errorf("unsupported oracle provider: %q", config.Provider)
}
