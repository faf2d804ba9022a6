package toolvec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toolvec/toolvec/internal/batching"
	"github.com/toolvec/toolvec/internal/db"
	dbredis "github.com/toolvec/toolvec/internal/db/redis"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/schema"
	indexrepo "github.com/toolvec/toolvec/internal/repository/index"
	recordrepo "github.com/toolvec/toolvec/internal/repository/record"
	searchrepo "github.com/toolvec/toolvec/internal/repository/search"
	storeuc "github.com/toolvec/toolvec/internal/usecase/store"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the toolvec SDK entry point: a Redis-backed vector store over a
// single declared schema.
type Client struct {
	store    db.Store
	storeSvc *storeuc.Service
}

// New creates a Client, connects to the database, and prepares the store
// schema (creating the index when WithInitializeSchema is set).
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("toolvec: database address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("toolvec: embedder required (use WithEmbedder)")
	}

	sch, err := buildSchema(cfg)
	if err != nil {
		return nil, fmt.Errorf("toolvec: %w", err)
	}

	batcher, err := batching.ForSelector(cfg.batchStrategy, cfg.batchSize, cfg.batchMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("toolvec: %w", err)
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("toolvec: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("toolvec: database not ready: %w", err)
	}

	svc := storeuc.New(storeuc.Config{
		Schema:           sch,
		Records:          recordrepo.New(store, sch),
		Search:           searchrepo.New(store, sch),
		Index:            indexrepo.New(store),
		Embed:            &embedderAdapter{inner: cfg.embedder},
		Batcher:          batcher,
		InitializeSchema: cfg.initializeSchema,
	})

	if err := svc.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("toolvec: init store: %w", err)
	}

	return &Client{store: store, storeSvc: svc}, nil
}

func buildSchema(cfg *clientConfig) (schema.Schema, error) {
	fields := make([]field.Field, 0, len(cfg.fields))
	for _, fi := range cfg.fields {
		f, err := field.New(fi.Name, field.Type(fi.Type))
		if err != nil {
			return schema.Schema{}, err
		}
		fields = append(fields, f)
	}

	indexName := cfg.indexName
	if indexName == "" {
		indexName = "toolvec-idx"
	}
	keyPrefix := cfg.keyPrefix
	if keyPrefix == "" {
		keyPrefix = "toolvec:doc:"
	}

	return schema.New(schema.Config{
		IndexName: indexName,
		KeyPrefix: keyPrefix,
		VectorDim: cfg.vectorDim,
		HNSWM:     cfg.hnswM,
		HNSWEF:    cfg.hnswEF,
		Fields:    fields,
	})
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
