package assistant

import (
	"context"
	"fmt"
	"strings"

	"flightclaim/backend/internal/config"
)

// NewEmbedder builds the embedder selected by EMBEDDING_PROVIDER.
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch strings.ToLower(cfg.EmbeddingProvider) {
	case "", "huggingface", "hf":
		return NewHuggingFaceEmbedder(cfg.HFAPIKey, cfg.HFEmbeddingModel), nil
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel)
	}
	return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
}

// NewLLM builds the chat model selected by LLM_PROVIDER.
func NewLLM(ctx context.Context, cfg *config.Config) (LLM, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "", "openai":
		if cfg.LLMAPIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewOpenAILLM(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel), nil
	case "gemini":
		return NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
}
