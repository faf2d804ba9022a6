package store

import (
	"context"
	"testing"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/result"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// mockRecords implements RecordRepository with overridable functions.
type mockRecords struct {
	upsertFn      func(ctx context.Context, doc *document.Document) error
	upsertBatchFn func(ctx context.Context, docs []document.Document) error
	getFn         func(ctx context.Context, id string) (document.Document, error)
	deleteFn      func(ctx context.Context, id string) error
	countFn       func(ctx context.Context) (int, error)
}

func (m *mockRecords) Upsert(ctx context.Context, doc *document.Document) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockRecords) UpsertBatch(ctx context.Context, docs []document.Document) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, docs)
	}
	return nil
}

func (m *mockRecords) Get(ctx context.Context, id string) (document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{}, nil
}

func (m *mockRecords) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRecords) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockSearch implements SearchRepository.
type mockSearch struct {
	searchKNNFn func(
		ctx context.Context, vector []float32, expr filter.Expression, topK int,
		includeVectors bool,
	) ([]result.Result, error)
}

func (m *mockSearch) SearchKNN(
	ctx context.Context, vector []float32, expr filter.Expression, topK int,
	includeVectors bool,
) ([]result.Result, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, vector, expr, topK, includeVectors)
	}
	return nil, nil
}

// mockIndex implements IndexRepository.
type mockIndex struct {
	ensureFn  func(ctx context.Context, sch schema.Schema) (bool, error)
	requireFn func(ctx context.Context, sch schema.Schema) error
	dropFn    func(ctx context.Context, sch schema.Schema) error
}

func (m *mockIndex) Ensure(ctx context.Context, sch schema.Schema) (bool, error) {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, sch)
	}
	return false, nil
}

func (m *mockIndex) Require(ctx context.Context, sch schema.Schema) error {
	if m.requireFn != nil {
		return m.requireFn(ctx, sch)
	}
	return nil
}

func (m *mockIndex) Drop(ctx context.Context, sch schema.Schema) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, sch)
	}
	return nil
}

// mockEmbedder implements Embedder with a fixed dimensionality.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 2, 3, 4}}, nil
}

func testSchema(t *testing.T) schema.Schema {
	t.Helper()

	country, err := field.New("country", field.Tag)
	if err != nil {
		t.Fatalf("field.New() error = %v", err)
	}
	year, err := field.New("year", field.Numeric)
	if err != nil {
		t.Fatalf("field.New() error = %v", err)
	}

	sch, err := schema.New(schema.Config{
		IndexName: "test-idx",
		KeyPrefix: "doc:",
		VectorDim: 4,
		Fields:    []field.Field{country, year},
	})
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return sch
}

func testService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Schema.IndexName() == "" {
		cfg.Schema = testSchema(t)
	}
	if cfg.Records == nil {
		cfg.Records = &mockRecords{}
	}
	if cfg.Search == nil {
		cfg.Search = &mockSearch{}
	}
	if cfg.Index == nil {
		cfg.Index = &mockIndex{}
	}
	if cfg.Embed == nil {
		cfg.Embed = &mockEmbedder{}
	}
	return New(cfg)
}

func testDoc(t *testing.T, id string, tags map[string]string, numerics map[string]float64) document.Document {
	t.Helper()
	d, err := document.New(id, "content of "+id, tags, numerics)
	if err != nil {
		t.Fatalf("document.New() error = %v", err)
	}
	return d
}
