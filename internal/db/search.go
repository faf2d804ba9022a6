package db

import (
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
)

// KNNQuery is the input for vector similarity search.
// FieldTypes carries the declared metadata schema so the driver can render
// the portable Filter into its native pre-filter grammar.
type KNNQuery struct {
	IndexName     string
	Filter        filter.Expression
	FieldTypes    map[string]field.Type
	Vector        []float32
	K             int
	ReturnFields  []string
	IncludeVector bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
