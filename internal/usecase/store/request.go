package store

import (
	"fmt"

	"github.com/toolvec/toolvec/internal/domain/filter"
)

// TopK bounds for similarity search.
const (
	DefaultTopK = 4
	MaxTopK     = 1000
)

// SearchRequest carries similarity search parameters.
type SearchRequest struct {
	Query          string
	TopK           int
	MinScore       float64
	Filter         filter.Expression
	IncludeVectors bool
}

// normalize applies defaults and validates ranges.
func (r *SearchRequest) normalize() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
	if r.TopK < 0 || r.TopK > MaxTopK {
		return fmt.Errorf("topK must be between 1 and %d", MaxTopK)
	}
	if r.MinScore < 0 || r.MinScore > 1 {
		return fmt.Errorf("minScore must be between 0.0 and 1.0")
	}
	return nil
}
