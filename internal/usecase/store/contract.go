package store

import (
	"context"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/result"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// RecordRepository defines the storage contract for record operations.
type RecordRepository interface {
	Upsert(ctx context.Context, doc *document.Document) error
	UpsertBatch(ctx context.Context, docs []document.Document) error
	Get(ctx context.Context, id string) (document.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SearchRepository defines the storage contract for similarity search.
type SearchRepository interface {
	SearchKNN(
		ctx context.Context, vector []float32, expr filter.Expression, topK int,
		includeVectors bool,
	) ([]result.Result, error)
}

// IndexRepository defines the storage contract for index lifecycle.
type IndexRepository interface {
	Ensure(ctx context.Context, sch schema.Schema) (bool, error)
	Require(ctx context.Context, sch schema.Schema) error
	Drop(ctx context.Context, sch schema.Schema) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
