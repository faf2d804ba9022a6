package chi

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/result"
)

// Error codes returned in error responses.
const (
	codeBadRequest            = "bad_request"
	codeUnauthorized          = "unauthorized"
	codeValidationFailed      = "validation_failed"
	codeDocumentNotFound      = "document_not_found"
	codeFunctionNotFound      = "function_not_found"
	codeSchemaMismatch        = "schema_mismatch"
	codeSchemaNotInitialized  = "schema_not_initialized"
	codeUnknownFilterField    = "unknown_filter_field"
	codeFilterNotTranslatable = "filter_not_translatable"
	codeProviderError         = "provider_error"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type documentRequest struct {
	ID       string          `json:"id,omitempty"`
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type addDocumentsRequest struct {
	Documents []documentRequest `json:"documents"`
}

type addDocumentsResponse struct {
	IDs   []string `json:"ids"`
	Added int      `json:"added"`
}

type documentResponse struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

type searchRequest struct {
	Query          string  `json:"query"`
	TopK           int     `json:"top_k,omitempty"`
	MinScore       float64 `json:"min_score,omitempty"`
	Filter         string  `json:"filter,omitempty"`
	IncludeVectors bool    `json:"include_vectors,omitempty"`
}

type searchResultItem struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Vector   []float32      `json:"vector,omitempty"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Content string `json:"content"`
}

type toolSpecItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type toolListResponse struct {
	Tools []toolSpecItem `json:"tools"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// documentFromRequest builds a domain document, generating an ID when the
// request leaves it out. Metadata splits by JSON value type: strings become
// tags, numbers become numerics.
func documentFromRequest(req documentRequest) (document.Document, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	tags, numerics, err := splitMetadata(req.Metadata)
	if err != nil {
		return document.Document{}, err
	}

	doc, err := document.New(id, req.Content, tags, numerics)
	if err != nil {
		return document.Document{}, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

// splitMetadata parses a JSON metadata object into tag and numeric maps.
func splitMetadata(raw json.RawMessage) (map[string]string, map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("metadata must be a JSON object: %w", err)
	}

	tags := make(map[string]string)
	numerics := make(map[string]float64)
	for k, v := range m {
		switch val := v.(type) {
		case string:
			tags[k] = val
		case float64:
			numerics[k] = val
		default:
			return nil, nil, fmt.Errorf("metadata field %q: unsupported value type %T", k, v)
		}
	}
	return tags, numerics, nil
}

// mergeMetadata renders tag and numeric maps back into one metadata object.
func mergeMetadata(tags map[string]string, numerics map[string]float64) map[string]any {
	if len(tags) == 0 && len(numerics) == 0 {
		return nil
	}
	m := make(map[string]any, len(tags)+len(numerics))
	for k, v := range tags {
		m[k] = v
	}
	for k, v := range numerics {
		m[k] = v
	}
	return m
}

func documentToResponse(doc *document.Document) documentResponse {
	return documentResponse{
		ID:       doc.ID(),
		Content:  doc.Content(),
		Metadata: mergeMetadata(doc.Tags(), doc.Numerics()),
	}
}

func resultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		ID:       r.ID(),
		Score:    r.Score(),
		Content:  r.Content(),
		Metadata: mergeMetadata(r.Tags(), r.Numerics()),
		Vector:   r.Vector(),
	}
}
