// Package batching splits document slices into embed/persist batches.
package batching

import (
	"fmt"

	"github.com/toolvec/toolvec/internal/domain/document"
)

// Selector values accepted in configuration.
const (
	SelectorFixedSize  = "FIXED_SIZE"
	SelectorTokenCount = "TOKEN_COUNT"
)

// Defaults applied when the configuration leaves sizes unset.
const (
	DefaultBatchSize = 64
	DefaultMaxTokens = 8192
)

// Strategy partitions documents into batches. Order is preserved; every
// document lands in exactly one batch.
type Strategy interface {
	Split(docs []document.Document) [][]document.Document
}

// ForSelector builds a Strategy from a configuration selector string.
func ForSelector(selector string, size, maxTokens int) (Strategy, error) {
	switch selector {
	case "", SelectorFixedSize:
		if size <= 0 {
			size = DefaultBatchSize
		}
		return FixedSize{Size: size}, nil
	case SelectorTokenCount:
		if maxTokens <= 0 {
			maxTokens = DefaultMaxTokens
		}
		return TokenCount{MaxTokens: maxTokens}, nil
	default:
		return nil, fmt.Errorf("unknown batching strategy %q (want %s or %s)",
			selector, SelectorFixedSize, SelectorTokenCount)
	}
}

// FixedSize batches a fixed number of documents.
type FixedSize struct {
	Size int
}

// Split partitions docs into batches of at most Size documents.
func (s FixedSize) Split(docs []document.Document) [][]document.Document {
	if len(docs) == 0 {
		return nil
	}
	size := s.Size
	if size <= 0 {
		size = DefaultBatchSize
	}

	batches := make([][]document.Document, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		batches = append(batches, docs[start:end])
	}
	return batches
}

// TokenCount batches documents by estimated token volume. A document larger
// than the budget still gets its own single-document batch.
type TokenCount struct {
	MaxTokens int
}

// Split partitions docs so each batch stays under the token budget.
func (s TokenCount) Split(docs []document.Document) [][]document.Document {
	if len(docs) == 0 {
		return nil
	}
	budget := s.MaxTokens
	if budget <= 0 {
		budget = DefaultMaxTokens
	}

	var batches [][]document.Document
	var current []document.Document
	used := 0

	for _, doc := range docs {
		tokens := EstimateTokens(doc.Content())
		if len(current) > 0 && used+tokens > budget {
			batches = append(batches, current)
			current = nil
			used = 0
		}
		current = append(current, doc)
		used += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// EstimateTokens approximates the token count of a text. English prose
// averages about four bytes per token; exact counts need the provider's
// tokenizer, which this layer deliberately avoids.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
