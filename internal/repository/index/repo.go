// Package index manages the FT index lifecycle for a store schema.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/store.IndexRepository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Ensure creates the schema's FT index if it does not exist yet.
// Returns true if the index was created by this call.
func (r *Repo) Ensure(ctx context.Context, sch schema.Schema) (bool, error) {
	exists, err := r.store.IndexExists(ctx, sch.IndexName())
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", sch.IndexName(), err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(sch)
	if err != nil {
		return false, err
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			// lost a create race, index is there now
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", sch.IndexName(), err)
	}
	return true, nil
}

// Exists reports whether the schema's FT index exists.
func (r *Repo) Exists(ctx context.Context, sch schema.Schema) (bool, error) {
	exists, err := r.store.IndexExists(ctx, sch.IndexName())
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", sch.IndexName(), err)
	}
	return exists, nil
}

// Require fails with domain.ErrSchemaNotInitialized when the index is missing.
func (r *Repo) Require(ctx context.Context, sch schema.Schema) error {
	exists, err := r.Exists(ctx, sch)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrSchemaNotInitialized
	}
	return nil
}

// Drop removes the schema's FT index, leaving the record hashes in place.
func (r *Repo) Drop(ctx context.Context, sch schema.Schema) error {
	if err := r.store.DropIndex(ctx, sch.IndexName()); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.ErrSchemaNotInitialized
		}
		return fmt.Errorf("drop index %s: %w", sch.IndexName(), err)
	}
	return nil
}

// buildIndex creates an IndexDefinition from the schema's declared fields
// plus the reserved content and vector fields.
func buildIndex(sch schema.Schema) (*db.IndexDefinition, error) {
	b := db.NewIndex(sch.IndexName()).Prefix(sch.KeyPrefix())

	for _, f := range sch.Fields() {
		switch f.FieldType() {
		case field.Tag:
			b.Tag(f.Name())
		case field.Text:
			b.Text(f.Name())
		case field.Numeric:
			b.Numeric(f.Name())
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.FieldType())
		}
	}

	b.VectorHNSW("__vector", sch.VectorDim(), db.DistanceCosine, sch.HNSWM(), sch.HNSWEF())

	return b.Build()
}
