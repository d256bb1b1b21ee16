package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/config"
	dbRedis "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/db/redis"
	logpkg "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/logger"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/metrics"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/repository/embcache"
	indexrepo "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/repository/index"
	chiTransport "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/transport/chi"
	openaiEmb "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/transport/openai"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/aggregate"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/diversity"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/filterpipe"
	healthuc "github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/health"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/querybuilder"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/rank"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/retrieval"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/usecase/stage"
	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/version"
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

	logger.Info("Starting sakhee retrieval server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index", cfg.Database.IndexName),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
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

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Embedder chain: OpenAI -> Cached
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	cache := embcache.NewCache(
		cfg.Embedding.CacheMaxEntries,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
	)
	embedder := embcache.New(base, cache, cfg.Embedding.MaxBatchSize, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Knowledge index repository
	index := indexrepo.New(store, cfg.Database.IndexName, logger)

	// Pipeline components
	executor := stage.NewExecutor(embedder, index,
		time.Duration(cfg.Retrieval.StageTimeoutSec)*time.Second)
	engine := retrieval.NewEngine(
		querybuilder.New(),
		executor,
		filterpipe.New(),
		rank.NewRanker(cfg.Retrieval.ProteinCeilingG, cfg.Retrieval.CarbCeilingG),
		diversity.NewSelector(cfg.Retrieval.MMRLambda),
		aggregate.New(cfg.Retrieval.ContextBudget),
		time.Duration(cfg.Retrieval.RequestTimeoutSec)*time.Second,
		cfg.Retrieval.TargetCount,
	)

	healthSvc := healthuc.New(store, base)

	server := chiTransport.NewServer(engine, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Post("/v1/retrieve", server.Retrieve)
	r.Get("/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
