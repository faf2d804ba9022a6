// Package store orchestrates the vector store: schema initialization,
// document ingestion with embedding and batching, similarity search, and
// record lookups.
package store

import (
	"context"
	"fmt"

	"github.com/toolvec/toolvec/internal/batching"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/result"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// Service handles vector store operations against a single schema.
type Service struct {
	schema  schema.Schema
	records RecordRepository
	search  SearchRepository
	index   IndexRepository
	embed   Embedder
	batcher batching.Strategy

	initializeSchema bool
}

// Config holds the service dependencies.
type Config struct {
	Schema  schema.Schema
	Records RecordRepository
	Search  SearchRepository
	Index   IndexRepository
	Embed   Embedder
	Batcher batching.Strategy

	// InitializeSchema makes Init create the index when missing. When false
	// the index must be pre-provisioned.
	InitializeSchema bool
}

// New creates a store service.
func New(cfg Config) *Service {
	batcher := cfg.Batcher
	if batcher == nil {
		batcher = batching.FixedSize{Size: batching.DefaultBatchSize}
	}
	return &Service{
		schema:           cfg.Schema,
		records:          cfg.Records,
		search:           cfg.Search,
		index:            cfg.Index,
		embed:            cfg.Embed,
		batcher:          batcher,
		initializeSchema: cfg.InitializeSchema,
	}
}

// Schema returns the schema the service operates on.
func (s *Service) Schema() schema.Schema { return s.schema }

// Init prepares the store. With InitializeSchema set it creates the index
// when missing; otherwise it only verifies the index exists.
func (s *Service) Init(ctx context.Context) error {
	if s.initializeSchema {
		if _, err := s.index.Ensure(ctx, s.schema); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		return nil
	}
	return s.index.Require(ctx, s.schema)
}

// Add embeds and persists documents. Batches come from the configured
// batching strategy; each batch is one pipelined write.
func (s *Service) Add(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	for i := range docs {
		if err := s.validateMetadata(&docs[i]); err != nil {
			return fmt.Errorf("document %q: %w", docs[i].ID(), err)
		}
	}

	if err := s.index.Require(ctx, s.schema); err != nil {
		return err
	}

	for _, batch := range s.batcher.Split(docs) {
		embedded, err := s.embedBatch(ctx, batch)
		if err != nil {
			return err
		}
		if err := s.records.UpsertBatch(ctx, embedded); err != nil {
			return fmt.Errorf("persist batch: %w", err)
		}
	}
	return nil
}

// Search embeds the query and runs a filtered KNN search. Results come back
// in descending similarity order, pruned by MinScore and bounded by TopK.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]result.Result, error) {
	if err := req.normalize(); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if err := s.validateFilter(req.Filter); err != nil {
		return nil, err
	}

	embRes, err := s.embed.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if err := s.checkDim(embRes.Embedding); err != nil {
		return nil, err
	}

	results, err := s.search.SearchKNN(
		ctx, embRes.Embedding, req.Filter, req.TopK, req.IncludeVectors,
	)
	if err != nil {
		return nil, err
	}

	if req.MinScore > 0 {
		pruned := results[:0]
		for _, r := range results {
			if r.Score() >= req.MinScore {
				pruned = append(pruned, r)
			}
		}
		results = pruned
	}

	return results, nil
}

// Get returns a stored document by ID.
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	if id == "" {
		return document.Document{}, fmt.Errorf("%w: document ID is required", domain.ErrInvalidDocument)
	}
	return s.records.Get(ctx, id)
}

// Delete removes a stored document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidDocument)
	}
	return s.records.Delete(ctx, id)
}

// Count returns the number of indexed documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.records.Count(ctx)
}

// embedBatch vectorizes a batch and returns copies carrying their vectors.
func (s *Service) embedBatch(ctx context.Context, batch []document.Document) ([]document.Document, error) {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Content()
	}

	vectors, _, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	out := make([]document.Document, len(batch))
	for i := range batch {
		if err := s.checkDim(vectors[i]); err != nil {
			return nil, fmt.Errorf("document %q: %w", batch[i].ID(), err)
		}
		out[i] = batch[i].WithVector(vectors[i])
	}
	return out, nil
}

// checkDim rejects vectors that do not match the schema dimensionality.
func (s *Service) checkDim(v []float32) error {
	if len(v) != s.schema.VectorDim() {
		return fmt.Errorf("%w: embedding dimension %d does not match schema dimension %d",
			domain.ErrEmbeddingProviderError, len(v), s.schema.VectorDim())
	}
	return nil
}

// validateMetadata checks document metadata against the declared schema.
func (s *Service) validateMetadata(doc *document.Document) error {
	for name := range doc.Tags() {
		f, ok := s.schema.FieldByName(name)
		if !ok {
			return fmt.Errorf("%w: undeclared metadata field %q", domain.ErrInvalidDocument, name)
		}
		if f.FieldType() == field.Numeric {
			return fmt.Errorf("%w: field %q is numeric but has a string value",
				domain.ErrInvalidDocument, name)
		}
	}
	for name := range doc.Numerics() {
		f, ok := s.schema.FieldByName(name)
		if !ok {
			return fmt.Errorf("%w: undeclared metadata field %q", domain.ErrInvalidDocument, name)
		}
		if f.FieldType() != field.Numeric {
			return fmt.Errorf("%w: field %q is %s but has a numeric value",
				domain.ErrInvalidDocument, name, f.FieldType())
		}
	}
	return nil
}

// validateFilter checks filter fields against the declared schema before
// any network round trip.
func (s *Service) validateFilter(expr filter.Expression) error {
	if expr == nil {
		return nil
	}
	for _, name := range filter.Fields(expr) {
		if _, ok := s.schema.FieldByName(name); !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownFilterField, name)
		}
	}
	return nil
}
