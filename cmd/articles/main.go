package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/articles/internal/config"
	"github.com/kailas-cloud/articles/internal/db"
	dbRedis "github.com/kailas-cloud/articles/internal/db/redis"
	"github.com/kailas-cloud/articles/internal/domain"
	logpkg "github.com/kailas-cloud/articles/internal/logger"
	"github.com/kailas-cloud/articles/internal/metrics"
	articlerepo "github.com/kailas-cloud/articles/internal/repository/article"
	"github.com/kailas-cloud/articles/internal/repository/embcache"
	vectorrepo "github.com/kailas-cloud/articles/internal/repository/vector"
	chiTransport "github.com/kailas-cloud/articles/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/articles/internal/transport/openai"
	articleuc "github.com/kailas-cloud/articles/internal/usecase/article"
	embeddinguc "github.com/kailas-cloud/articles/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/articles/internal/usecase/health"
	vectoruc "github.com/kailas-cloud/articles/internal/usecase/vector"
	"github.com/kailas-cloud/articles/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting articles API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("db_url", cfg.Database.URL != ""),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		URL:      cfg.Database.URL,
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	docEmbedder := buildEmbedder(cfg, cfg.Embedding.DocumentInstruction, store, logger)
	queryEmbedder := buildEmbedder(cfg, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	summarizer := openaiTransport.NewSummarizer(&openaiTransport.SummarizerConfig{
		APIKey:    cfg.Completion.APIKey,
		BaseURL:   cfg.Completion.BaseURL,
		Model:     cfg.Completion.Model,
		MaxTokens: cfg.Completion.MaxTokens,
		Timeout:   time.Duration(cfg.Completion.TimeoutSec) * time.Second,
		Logger:    logger,
	})

	// Repositories
	articleRepo := articlerepo.New(store, cfg.Storage.KeyPrefix)
	vectorRepo := vectorrepo.New(store, vectorrepo.Config{
		KeyPrefix:      cfg.Storage.KeyPrefix,
		IndexName:      cfg.Index.Name,
		Dimensions:     cfg.Embedding.Dimensions,
		M:              cfg.Index.HNSWM,
		EFConstruction: cfg.Index.HNSWEFConstruct,
	})

	// Use case services
	vectorSvc := vectoruc.New(vectorRepo, docEmbedder, queryEmbedder, cfg.Embedding.Dimensions)
	if err := vectorSvc.EnsureIndex(ctx); err != nil {
		// Degraded mode: CRUD and summaries keep working, search/embed fail until the index exists.
		logger.Warn("Vector index unavailable, search is degraded", zap.Error(err))
	} else {
		logger.Info("Vector index ready", zap.String("index", vectorRepo.IndexName()))
	}

	articleSvc := articleuc.New(articleRepo, summarizer, vectorSvc).
		WithListLimit(cfg.Articles.ListLimit).
		WithSearchLimits(cfg.Articles.DefaultSearchLimit, cfg.Articles.MaxSearchLimit)

	healthSvc := healthuc.New(store, vectorRepo, newEmbeddingHealthChecker(docEmbedder))

	server := chiTransport.NewServer(articleSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, logger, chiTransport.CORSConfig{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: *cfg.CORS.AllowCredentials,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(cfg config.Config, instruction string, store db.Store, logger *zap.Logger) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Storage.KeyPrefix,
			Model:     cfg.Embedding.Model,
			TTL:       time.Duration(cfg.Embedding.CacheTTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (logs + timing)
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Model, logger)

	// Instruction prefix (outermost, so the cache key includes the instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}
