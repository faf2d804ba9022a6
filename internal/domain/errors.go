package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFunctionNotFound signals a tool call naming an unregistered function.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrSchemaMismatch signals tool-call arguments that do not conform to the declared input schema.
	ErrSchemaMismatch = errors.New("argument schema mismatch")
	// ErrSchemaNotInitialized signals a store operation against a missing vector index.
	ErrSchemaNotInitialized = errors.New("schema not initialized")
	// ErrUnknownFilterField signals a filter referencing an undeclared metadata field.
	ErrUnknownFilterField = errors.New("unknown filter field")
	// ErrFilterNotTranslatable signals a filter shape the native query grammar cannot express.
	ErrFilterNotTranslatable = errors.New("filter not translatable")
	// ErrInvalidDocument signals a malformed document (empty content, bad metadata value).
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)

// FunctionNotFoundError wraps ErrFunctionNotFound with the requested name.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrFunctionNotFound.Error(), e.Name)
}

func (e *FunctionNotFoundError) Unwrap() error { return ErrFunctionNotFound }

// NewFunctionNotFound creates a function-not-found error for the given name.
func NewFunctionNotFound(name string) error {
	return &FunctionNotFoundError{Name: name}
}
