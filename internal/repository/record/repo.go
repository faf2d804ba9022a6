// Package record persists documents as Redis hashes under the schema's
// key prefix.
package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// store is the consumer interface for records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/store.RecordRepository.
type Repo struct {
	store  store
	schema schema.Schema
}

// New creates a record repository bound to a store schema.
func New(s store, sch schema.Schema) *Repo {
	return &Repo{store: s, schema: sch}
}

// Upsert writes a single document hash. The FT index picks it up by prefix.
func (r *Repo) Upsert(ctx context.Context, doc *document.Document) error {
	key := r.schema.Key(doc.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// UpsertBatch writes a batch of document hashes in one pipelined round trip.
func (r *Repo) UpsertBatch(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		items = append(items, db.HashSetItem{
			Key:    r.schema.Key(docs[i].ID()),
			Fields: buildHashFields(&docs[i]),
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset batch of %d: %w", len(items), err)
	}
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (document.Document, error) {
	key := r.schema.Key(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return document.Document{}, domain.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return document.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(r.schema, id, fields), nil
}

// Delete removes a document. Missing documents report domain.ErrDocumentNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.schema.Key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.schema.IndexName(), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, domain.ErrSchemaNotInitialized
		}
		return 0, fmt.Errorf("count %s: %w", r.schema.IndexName(), err)
	}
	return n, nil
}
