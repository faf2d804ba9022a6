package chi

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/result"
	"github.com/toolvec/toolvec/internal/domain/schema"
	"github.com/toolvec/toolvec/internal/toolcall"
	healthuc "github.com/toolvec/toolvec/internal/usecase/health"
	storeuc "github.com/toolvec/toolvec/internal/usecase/store"
)

// mockRecords implements storeuc.RecordRepository.
type mockRecords struct {
	upsertBatchFn func(ctx context.Context, docs []document.Document) error
	getFn         func(ctx context.Context, id string) (document.Document, error)
	deleteFn      func(ctx context.Context, id string) error
	countFn       func(ctx context.Context) (int, error)
}

func (m *mockRecords) Upsert(_ context.Context, _ *document.Document) error { return nil }

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
	return document.Document{}, domain.ErrDocumentNotFound
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

// mockSearch implements storeuc.SearchRepository.
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

// mockIndex implements storeuc.IndexRepository.
type mockIndex struct {
	requireFn func(ctx context.Context, sch schema.Schema) error
}

func (m *mockIndex) Ensure(_ context.Context, _ schema.Schema) (bool, error) { return false, nil }

func (m *mockIndex) Require(ctx context.Context, sch schema.Schema) error {
	if m.requireFn != nil {
		return m.requireFn(ctx, sch)
	}
	return nil
}

func (m *mockIndex) Drop(_ context.Context, _ schema.Schema) error { return nil }

// mockEmbedder implements storeuc.Embedder with a fixed 4-dim vector.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 2, 3, 4}}, nil
}

// mockPinger implements healthuc.DBPinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type serverMocks struct {
	records *mockRecords
	search  *mockSearch
	index   *mockIndex
	pinger  *mockPinger
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

// newTestServer wires a Server onto mock repositories through the real
// store usecase. Chat stays nil.
func newTestServer(t *testing.T) (*Server, *serverMocks, http.Handler) {
	t.Helper()

	mocks := &serverMocks{
		records: &mockRecords{},
		search:  &mockSearch{},
		index:   &mockIndex{},
		pinger:  &mockPinger{},
	}

	storeSvc := storeuc.New(storeuc.Config{
		Schema:  testSchema(t),
		Records: mocks.records,
		Search:  mocks.search,
		Index:   mocks.index,
		Embed:   &mockEmbedder{},
	})

	healthSvc := healthuc.New(mocks.pinger, nil)

	srv := NewServer(storeSvc, nil, toolcall.NewRegistry(), healthSvc, zap.NewNop())
	return srv, mocks, srv.Router(nil)
}
