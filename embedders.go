package toolvec

import (
	"context"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/transport/ollama"
	"github.com/toolvec/toolvec/internal/transport/openai"
)

// OpenAIEmbedderConfig configures an OpenAI-compatible embedding provider.
type OpenAIEmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// NewOpenAIEmbedder creates an embedding provider on the OpenAI-compatible
// API. BaseURL may point at any compatible host.
func NewOpenAIEmbedder(cfg OpenAIEmbedderConfig) Embedder {
	return &providerAdapter{inner: openai.NewEmbedder(&openai.EmbedderConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
	})}
}

// OllamaEmbedderConfig configures a native Ollama embedding provider.
type OllamaEmbedderConfig struct {
	Host  string
	Model string
}

// NewOllamaEmbedder creates an embedding provider on the native Ollama
// /api/embed endpoint.
func NewOllamaEmbedder(cfg OllamaEmbedderConfig) Embedder {
	return &providerAdapter{inner: ollama.NewEmbedder(&ollama.Config{
		Host:  cfg.Host,
		Model: cfg.Model,
	})}
}

// providerAdapter exposes an internal embedding provider as a public Embedder.
type providerAdapter struct {
	inner domain.Embedder
}

func (a *providerAdapter) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	return EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
