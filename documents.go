package toolvec

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/toolvec/toolvec/internal/domain/document"
)

// Add embeds and persists documents. Documents without an ID get a
// generated UUID; the returned slice holds the stored IDs in input order.
func (c *Client) Add(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	internal := make([]document.Document, 0, len(docs))
	ids := make([]string, 0, len(docs))
	for i, d := range docs {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}

		doc, err := document.New(id, d.Content, d.Tags, d.Numerics)
		if err != nil {
			return nil, fmt.Errorf("add: document %d: %w", i, err)
		}
		internal = append(internal, doc)
		ids = append(ids, id)
	}

	if err := c.storeSvc.Add(ctx, internal); err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return ids, nil
}

// Get returns a stored document by ID.
func (c *Client) Get(ctx context.Context, id string) (Document, error) {
	doc, err := c.storeSvc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get: %w", err)
	}
	return Document{
		ID:       doc.ID(),
		Content:  doc.Content(),
		Tags:     doc.Tags(),
		Numerics: doc.Numerics(),
	}, nil
}

// Delete removes a stored document by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.storeSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (c *Client) Count(ctx context.Context) (int, error) {
	n, err := c.storeSvc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
