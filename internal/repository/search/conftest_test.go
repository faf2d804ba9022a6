package search

import (
	"context"
	"testing"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// mockStore implements the store interface with overridable functions.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
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
