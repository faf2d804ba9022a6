// Package schema holds the store schema: index name, key prefix, vector
// parameters, and the declared metadata fields. Filter translation and
// metadata validation both run against it.
package schema

import (
	"fmt"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain/field"
)

// Default vector index parameters.
const (
	DefaultVectorDim = 1536
	DefaultHNSWM     = 16
	DefaultHNSWEF    = 200
)

// Schema is the immutable store configuration (value object).
type Schema struct {
	indexName string
	keyPrefix string
	vectorDim int
	hnswM     int
	hnswEF    int
	fields    []field.Field
	byName    map[string]field.Field
}

// Config holds the inputs for building a Schema.
type Config struct {
	IndexName string
	KeyPrefix string
	VectorDim int
	HNSWM     int
	HNSWEF    int
	Fields    []field.Field
}

// New validates and creates a Schema.
func New(cfg Config) (Schema, error) {
	if cfg.IndexName == "" {
		return Schema{}, fmt.Errorf("index name is required")
	}
	if !db.IsValidIdentifier(cfg.IndexName) {
		return Schema{}, fmt.Errorf("index name %q contains invalid characters", cfg.IndexName)
	}
	if cfg.KeyPrefix == "" {
		return Schema{}, fmt.Errorf("key prefix is required")
	}

	s := Schema{
		indexName: cfg.IndexName,
		keyPrefix: cfg.KeyPrefix,
		vectorDim: cfg.VectorDim,
		hnswM:     cfg.HNSWM,
		hnswEF:    cfg.HNSWEF,
		fields:    cfg.Fields,
		byName:    make(map[string]field.Field, len(cfg.Fields)),
	}
	if s.vectorDim <= 0 {
		s.vectorDim = DefaultVectorDim
	}
	if s.hnswM <= 0 {
		s.hnswM = DefaultHNSWM
	}
	if s.hnswEF <= 0 {
		s.hnswEF = DefaultHNSWEF
	}

	for _, f := range cfg.Fields {
		if _, dup := s.byName[f.Name()]; dup {
			return Schema{}, fmt.Errorf("duplicate metadata field %q", f.Name())
		}
		if isReservedField(f.Name()) {
			return Schema{}, fmt.Errorf("metadata field name %q is reserved", f.Name())
		}
		s.byName[f.Name()] = f
	}

	return s, nil
}

// isReservedField guards the internal hash fields.
func isReservedField(name string) bool {
	return name == "__content" || name == "__vector" || name == "__vector_score"
}

// IndexName returns the FT index name.
func (s Schema) IndexName() string { return s.indexName }

// KeyPrefix returns the record key prefix.
func (s Schema) KeyPrefix() string { return s.keyPrefix }

// VectorDim returns the embedding dimensionality.
func (s Schema) VectorDim() int { return s.vectorDim }

// HNSWM returns the HNSW M parameter.
func (s Schema) HNSWM() int { return s.hnswM }

// HNSWEF returns the HNSW EF_CONSTRUCTION parameter.
func (s Schema) HNSWEF() int { return s.hnswEF }

// Fields returns the declared metadata fields.
func (s Schema) Fields() []field.Field { return s.fields }

// FieldByName looks up a declared field.
func (s Schema) FieldByName(name string) (field.Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// FieldTypes returns the name-to-type mapping used by filter translation.
func (s Schema) FieldTypes() map[string]field.Type {
	types := make(map[string]field.Type, len(s.byName))
	for name, f := range s.byName {
		types[name] = f.FieldType()
	}
	return types
}

// Key returns the storage key for a record ID.
func (s Schema) Key(id string) string { return s.keyPrefix + id }
