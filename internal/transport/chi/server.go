// Package chi implements the HTTP transport: routing, handlers, auth, and
// domain-error-to-status mapping.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/metrics"
	"github.com/toolvec/toolvec/internal/toolcall"
	chatuc "github.com/toolvec/toolvec/internal/usecase/chat"
	healthuc "github.com/toolvec/toolvec/internal/usecase/health"
	storeuc "github.com/toolvec/toolvec/internal/usecase/store"
)

const maxAddBatch = 1000

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the store and chat services over HTTP.
type Server struct {
	store         *storeuc.Service
	chat          *chatuc.Service
	tools         *toolcall.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. chat can be nil when no chat
// provider is configured.
func NewServer(
	store *storeuc.Service,
	chat *chatuc.Service,
	tools *toolcall.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		store:  store,
		chat:   chat,
		tools:  tools,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrFunctionNotFound, http.StatusNotFound, codeFunctionNotFound),
		sentinelHandler(domain.ErrSchemaNotInitialized, http.StatusConflict, codeSchemaNotInitialized),
		sentinelHandler(domain.ErrSchemaMismatch, http.StatusBadRequest, codeSchemaMismatch),
		sentinelHandler(domain.ErrUnknownFilterField, http.StatusBadRequest, codeUnknownFilterField),
		sentinelHandler(domain.ErrFilterNotTranslatable, http.StatusBadRequest, codeFilterNotTranslatable),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.AddDocuments)
		r.Get("/documents/count", s.CountDocuments)
		r.Get("/documents/{id}", s.GetDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
		r.Post("/search", s.SearchDocuments)
		r.Get("/tools", s.ListTools)
		r.Post("/chat", s.Chat)
	})

	return r
}

// AddDocuments handles POST /api/v1/documents.
func (s *Server) AddDocuments(w http.ResponseWriter, r *http.Request) {
	var req addDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxAddBatch {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"documents count must be between 1 and 1000")
		return
	}

	docs := make([]document.Document, 0, len(req.Documents))
	ids := make([]string, 0, len(req.Documents))
	for _, item := range req.Documents {
		doc, err := documentFromRequest(item)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID())
	}

	if err := s.store.Add(r.Context(), docs); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addDocumentsResponse{IDs: ids, Added: len(ids)})
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// DeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CountDocuments handles GET /api/v1/documents/count.
func (s *Server) CountDocuments(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// SearchDocuments handles POST /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var expr filter.Expression
	if req.Filter != "" {
		parsed, err := filter.Parse(req.Filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "parse filter: "+err.Error())
			return
		}
		expr = parsed
	}

	results, err := s.store.Search(r.Context(), storeuc.SearchRequest{
		Query:          req.Query,
		TopK:           req.TopK,
		MinScore:       req.MinScore,
		Filter:         expr,
		IncludeVectors: req.IncludeVectors,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = resultToItem(&results[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// ListTools handles GET /api/v1/tools.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	specs := s.tools.Specs()
	items := make([]toolSpecItem, len(specs))
	for i, spec := range specs {
		items[i] = toolSpecItem{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.InputSchema,
		}
	}
	writeJSON(w, http.StatusOK, toolListResponse{Tools: items})
}

// Chat handles POST /api/v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeError(w, http.StatusNotImplemented, codeValidationFailed, "chat provider is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "prompt is required")
		return
	}

	content, err := s.chat.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Content: content})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrFunctionNotFound,
		domain.ErrSchemaNotInitialized,
		domain.ErrSchemaMismatch,
		domain.ErrUnknownFilterField,
		domain.ErrFilterNotTranslatable,
		domain.ErrInvalidDocument,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
