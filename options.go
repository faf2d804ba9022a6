package toolvec

import "time"

// Batching strategy selectors.
const (
	BatchFixedSize  = "FIXED_SIZE"
	BatchTokenCount = "TOKEN_COUNT"
)

type clientConfig struct {
	addrs    []string
	password string

	indexName string
	keyPrefix string
	vectorDim int
	hnswM     int
	hnswEF    int
	fields    []FieldInfo

	initializeSchema bool

	embedder Embedder

	batchStrategy  string
	batchSize      int
	batchMaxTokens int

	readinessTimeout time.Duration
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the Redis addresses.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithIndexName overrides the FT index name (default "toolvec-idx").
func WithIndexName(name string) Option {
	return func(c *clientConfig) { c.indexName = name }
}

// WithKeyPrefix overrides the record key prefix (default "toolvec:doc:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithVectorDim sets the embedding dimensionality (default 1536).
func WithVectorDim(dim int) Option {
	return func(c *clientConfig) { c.vectorDim = dim }
}

// WithHNSW sets the HNSW index parameters.
func WithHNSW(m, efConstruct int) Option {
	return func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	}
}

// WithField declares a filterable metadata field.
func WithField(name string, ft FieldType) Option {
	return func(c *clientConfig) {
		c.fields = append(c.fields, FieldInfo{Name: name, Type: ft})
	}
}

// WithInitializeSchema makes the client create the index on startup when it
// is missing. Without it the index must be pre-provisioned and operations
// against a missing index fail with ErrSchemaNotInitialized.
func WithInitializeSchema() Option {
	return func(c *clientConfig) { c.initializeSchema = true }
}

// WithEmbedder sets the embedding provider (required).
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithBatching selects the ingestion batching strategy. strategy is
// BatchFixedSize or BatchTokenCount; size applies to FIXED_SIZE, maxTokens
// to TOKEN_COUNT.
func WithBatching(strategy string, size, maxTokens int) Option {
	return func(c *clientConfig) {
		c.batchStrategy = strategy
		c.batchSize = size
		c.batchMaxTokens = maxTokens
	}
}

// WithReadinessTimeout overrides how long New waits for the database.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.readinessTimeout = d }
}
