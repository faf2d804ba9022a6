// Package search runs KNN queries against the store's FT index and maps
// the hits back into domain results.
package search

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/result"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/store.SearchRepository.
type Repo struct {
	store  store
	schema schema.Schema
}

// New creates a search repository bound to a store schema.
func New(s store, sch schema.Schema) *Repo {
	return &Repo{store: s, schema: sch}
}

// SearchKNN performs a vector similarity search with optional pre-filtering.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, expr filter.Expression, topK int,
	includeVectors bool,
) ([]result.Result, error) {
	returnFields := []string{"__content", "__vector_score"}
	for _, f := range r.schema.Fields() {
		returnFields = append(returnFields, f.Name())
	}
	if includeVectors {
		returnFields = append(returnFields, "__vector")
	}

	q := &db.KNNQuery{
		IndexName:     r.schema.IndexName(),
		Filter:        expr,
		FieldTypes:    r.schema.FieldTypes(),
		Vector:        vector,
		K:             topK,
		ReturnFields:  returnFields,
		IncludeVector: includeVectors,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrIndexNotFound):
			return nil, domain.ErrSchemaNotInitialized
		case errors.Is(err, db.ErrUnknownFilterField):
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownFilterField, err)
		case errors.Is(err, db.ErrUnsupportedFilter):
			return nil, fmt.Errorf("%w: %w", domain.ErrFilterNotTranslatable, err)
		}
		return nil, fmt.Errorf("search knn %s: %w", r.schema.IndexName(), err)
	}

	return r.parseKNNResults(sr, includeVectors), nil
}

// parseKNNResults converts db.SearchResult into []result.Result.
func (r *Repo) parseKNNResults(sr *db.SearchResult, includeVectors bool) []result.Result {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docID := strings.TrimPrefix(entry.Key, r.schema.KeyPrefix())
		results = append(results, r.parseEntryFields(docID, entry, includeVectors))
	}
	return results
}

// parseEntryFields parses a KNN entry from flat hash fields.
func (r *Repo) parseEntryFields(docID string, entry db.SearchEntry, includeVectors bool) result.Result {
	var content string
	var vector []float32
	tags := make(map[string]string)
	numerics := make(map[string]float64)

	for k, v := range entry.Fields {
		switch k {
		case "__content":
			content = v
		case "__vector":
			if includeVectors {
				vector = bytesToVector(v)
			}
		case "__vector_score":
			// handled by db layer via entry.Score
		default:
			f, declared := r.schema.FieldByName(k)
			if declared && f.FieldType() == field.Numeric {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					numerics[k] = n
				}
				continue
			}
			tags[k] = v
		}
	}

	return result.New(docID, entry.Score, content, tags, numerics, vector)
}

// bytesToVector deserializes a binary string to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
