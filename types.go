package toolvec

import "context"

// FieldType is the declared type of a metadata field.
type FieldType string

const (
	// FieldTag is an exact-match categorical field.
	FieldTag FieldType = "tag"
	// FieldText is a full-text field.
	FieldText FieldType = "text"
	// FieldNumeric is a numeric range field.
	FieldNumeric FieldType = "numeric"
)

// FieldInfo describes one declared metadata field.
type FieldInfo struct {
	Name string
	Type FieldType
}

// Document is a content unit with typed metadata. ID may be left empty on
// Add; a UUID is generated.
type Document struct {
	ID       string
	Content  string
	Tags     map[string]string
	Numerics map[string]float64
}

// SearchResult is a single similarity search hit. Score is in [0, 1],
// higher is more similar.
type SearchResult struct {
	ID       string
	Score    float64
	Content  string
	Tags     map[string]string
	Numerics map[string]float64
	Vector   []float32
}

// EmbeddingResult carries an embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}
