package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toolvec/toolvec/internal/batching"
	"github.com/toolvec/toolvec/internal/config"
	dbredis "github.com/toolvec/toolvec/internal/db/redis"
	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
	"github.com/toolvec/toolvec/internal/domain/schema"
	"github.com/toolvec/toolvec/internal/logger"
	"github.com/toolvec/toolvec/internal/metrics"
	indexrepo "github.com/toolvec/toolvec/internal/repository/index"
	recordrepo "github.com/toolvec/toolvec/internal/repository/record"
	searchrepo "github.com/toolvec/toolvec/internal/repository/search"
	"github.com/toolvec/toolvec/internal/toolcall"
	chitransport "github.com/toolvec/toolvec/internal/transport/chi"
	"github.com/toolvec/toolvec/internal/transport/ollama"
	"github.com/toolvec/toolvec/internal/transport/openai"
	chatuc "github.com/toolvec/toolvec/internal/usecase/chat"
	healthuc "github.com/toolvec/toolvec/internal/usecase/health"
	storeuc "github.com/toolvec/toolvec/internal/usecase/store"
	"github.com/toolvec/toolvec/internal/version"
)

// NewServeCmd constructs the `toolvec serve` subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the toolvec HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting toolvec server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterToolMetrics()

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create redis store: %w", err)
	}
	defer store.Close()

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	log.Info("Connected to database")

	sch, err := buildSchema(cfg.Store)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	embedder, err := buildEmbedder(cfg.Embedding, log)
	if err != nil {
		return err
	}
	log.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
	)

	batcher, err := batching.ForSelector(
		cfg.Store.Batching.Strategy, cfg.Store.Batching.BatchSize, cfg.Store.Batching.MaxTokens,
	)
	if err != nil {
		return fmt.Errorf("build batcher: %w", err)
	}

	storeSvc := storeuc.New(storeuc.Config{
		Schema:           sch,
		Records:          recordrepo.New(store, sch),
		Search:           searchrepo.New(store, sch),
		Index:            indexrepo.New(store),
		Embed:            embedder,
		Batcher:          batcher,
		InitializeSchema: cfg.Store.InitializeSchema,
	})
	if err := storeSvc.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	tools := toolcall.NewRegistry()
	if err := registerSearchTool(tools, storeSvc); err != nil {
		return fmt.Errorf("register search tool: %w", err)
	}

	var chatSvc *chatuc.Service
	if cfg.Chat.Model != "" {
		model := openai.NewChatModel(&openai.ChatConfig{
			APIKey:      cfg.Chat.APIKey,
			BaseURL:     cfg.Chat.BaseURL,
			Model:       cfg.Chat.Model,
			Temperature: cfg.Chat.Temperature,
			Logger:      log,
		})
		chatSvc = chatuc.New(model, tools,
			chatuc.WithSystemPrompt(cfg.Chat.SystemPrompt),
			chatuc.WithMaxRounds(cfg.Chat.MaxRounds),
		)
		log.Info("Chat model created", zap.String("model", cfg.Chat.Model))
	}

	healthSvc := healthuc.New(store, asHealthChecker(embedder))

	server := chitransport.NewServer(storeSvc, chatSvc, tools, healthSvc, log)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
	return nil
}

func buildSchema(cfg config.StoreConfig) (schema.Schema, error) {
	fields := make([]field.Field, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		f, err := field.New(fc.Name, field.Type(fc.Type))
		if err != nil {
			return schema.Schema{}, err
		}
		fields = append(fields, f)
	}

	return schema.New(schema.Config{
		IndexName: cfg.IndexName,
		KeyPrefix: cfg.KeyPrefix,
		VectorDim: cfg.VectorDim,
		HNSWM:     cfg.HNSWM,
		HNSWEF:    cfg.HNSWEFConstruct,
		Fields:    fields,
	})
}

func buildEmbedder(cfg config.EmbeddingConfig, log *zap.Logger) (domain.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewEmbedder(&openai.EmbedderConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   "openai",
			Logger:     log,
		}), nil
	case "ollama":
		return ollama.NewEmbedder(&ollama.Config{
			Host:  cfg.BaseURL,
			Model: cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// asHealthChecker exposes the embedder's health check when it has one.
func asHealthChecker(e domain.Embedder) healthuc.EmbeddingChecker {
	if hc, ok := e.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}

// searchDocumentsArgs is the input schema of the built-in search tool.
type searchDocumentsArgs struct {
	Query  string `json:"query" description:"Natural language search query"`
	TopK   int    `json:"top_k,omitempty" description:"Maximum number of documents to return (default 4)"`
	Filter string `json:"filter,omitempty" description:"Metadata filter expression, e.g. country in ['UK','NL'] && year >= 2020"`
}

type searchDocumentsHit struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type searchDocumentsResult struct {
	Documents []searchDocumentsHit `json:"documents"`
}

// registerSearchTool wires the vector store into the tool registry so the
// chat loop can retrieve documents.
func registerSearchTool(reg *toolcall.Registry, store *storeuc.Service) error {
	tool, err := toolcall.New(
		"search_documents",
		"Search the document store for content similar to a query. "+
			"Supports an optional metadata filter expression.",
		func(ctx context.Context, args searchDocumentsArgs) (searchDocumentsResult, error) {
			var expr filter.Expression
			if args.Filter != "" {
				parsed, err := filter.Parse(args.Filter)
				if err != nil {
					return searchDocumentsResult{}, fmt.Errorf("parse filter: %w", err)
				}
				expr = parsed
			}

			results, err := store.Search(ctx, storeuc.SearchRequest{
				Query:  args.Query,
				TopK:   args.TopK,
				Filter: expr,
			})
			if err != nil {
				return searchDocumentsResult{}, err
			}

			hits := make([]searchDocumentsHit, len(results))
			for i := range results {
				r := &results[i]
				meta := make(map[string]any, len(r.Tags())+len(r.Numerics()))
				for k, v := range r.Tags() {
					meta[k] = v
				}
				for k, v := range r.Numerics() {
					meta[k] = v
				}
				hits[i] = searchDocumentsHit{
					ID:       r.ID(),
					Score:    r.Score(),
					Content:  r.Content(),
					Metadata: meta,
				}
			}
			return searchDocumentsResult{Documents: hits}, nil
		},
	)
	if err != nil {
		return err
	}
	return reg.Register(tool)
}
