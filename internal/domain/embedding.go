package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbedAll vectorizes texts one by one through e. The returned slice is
// parallel to texts; token counts are summed across calls.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, int, error) {
	vectors := make([][]float32, len(texts))
	var totalTokens int

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return nil, totalTokens, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = res.Embedding
		totalTokens += res.TotalTokens
	}

	return vectors, totalTokens, nil
}
