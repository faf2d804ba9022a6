package toolvec

import (
	"context"
	"fmt"

	"github.com/toolvec/toolvec/internal/domain/result"
	storeuc "github.com/toolvec/toolvec/internal/usecase/store"
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// TopK bounds the number of hits (default 4).
	TopK int
	// MinScore prunes hits scoring below the threshold, in [0, 1].
	MinScore float64
	// Filter restricts candidates by metadata before the vector search.
	Filter Filter
	// IncludeVectors returns the stored embedding with each hit.
	IncludeVectors bool
}

// Search embeds the query and returns the most similar documents in
// descending score order.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]SearchResult, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	expr, err := opts.Filter.internal()
	if err != nil {
		return nil, fmt.Errorf("search: invalid filter: %w", err)
	}

	results, err := c.storeSvc.Search(ctx, storeuc.SearchRequest{
		Query:          query,
		TopK:           opts.TopK,
		MinScore:       opts.MinScore,
		Filter:         expr,
		IncludeVectors: opts.IncludeVectors,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return fromResults(results), nil
}

func fromResults(results []result.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		out[i] = SearchResult{
			ID:       r.ID(),
			Score:    r.Score(),
			Content:  r.Content(),
			Tags:     r.Tags(),
			Numerics: r.Numerics(),
			Vector:   r.Vector(),
		}
	}
	return out
}
