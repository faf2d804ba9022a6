package index

import (
	"context"
	"testing"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// mockStore implements the store interface with overridable functions.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func testSchema(t *testing.T) schema.Schema {
	t.Helper()

	country, err := field.New("country", field.Tag)
	if err != nil {
		t.Fatalf("field.New() error = %v", err)
	}
	title, err := field.New("title", field.Text)
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
		VectorDim: 8,
		HNSWM:     32,
		HNSWEF:    100,
		Fields:    []field.Field{country, title, year},
	})
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return sch
}
