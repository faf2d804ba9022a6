package toolvec

import "github.com/toolvec/toolvec/internal/domain"

// Sentinel errors returned by the SDK. Match with errors.Is.
var (
	// ErrFunctionNotFound signals a tool call naming an unregistered function.
	ErrFunctionNotFound = domain.ErrFunctionNotFound
	// ErrSchemaMismatch signals tool-call arguments that do not conform to the declared input schema.
	ErrSchemaMismatch = domain.ErrSchemaMismatch
	// ErrSchemaNotInitialized signals a store operation against a missing vector index.
	ErrSchemaNotInitialized = domain.ErrSchemaNotInitialized
	// ErrUnknownFilterField signals a filter referencing an undeclared metadata field.
	ErrUnknownFilterField = domain.ErrUnknownFilterField
	// ErrFilterNotTranslatable signals a filter shape the native query grammar cannot express.
	ErrFilterNotTranslatable = domain.ErrFilterNotTranslatable
	// ErrInvalidDocument signals a malformed document.
	ErrInvalidDocument = domain.ErrInvalidDocument
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
