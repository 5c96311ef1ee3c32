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

	"github.com/glyphdex/glyphdex/internal/config"
	"github.com/glyphdex/glyphdex/internal/db"
	dbRedis "github.com/glyphdex/glyphdex/internal/db/redis"
	"github.com/glyphdex/glyphdex/internal/domain"
	logpkg "github.com/glyphdex/glyphdex/internal/logger"
	"github.com/glyphdex/glyphdex/internal/metrics"
	budgetrepo "github.com/glyphdex/glyphdex/internal/repository/budget"
	collectionrepo "github.com/glyphdex/glyphdex/internal/repository/collection"
	"github.com/glyphdex/glyphdex/internal/repository/embcache"
	iconrepo "github.com/glyphdex/glyphdex/internal/repository/icon"
	searchrepo "github.com/glyphdex/glyphdex/internal/repository/search"
	tokenrepo "github.com/glyphdex/glyphdex/internal/repository/token"
	usagerepo "github.com/glyphdex/glyphdex/internal/repository/usage"
	chiTransport "github.com/glyphdex/glyphdex/internal/transport/chi"
	openaiEmb "github.com/glyphdex/glyphdex/internal/transport/openai"
	collectionuc "github.com/glyphdex/glyphdex/internal/usecase/collection"
	embeddinguc "github.com/glyphdex/glyphdex/internal/usecase/embedding"
	healthuc "github.com/glyphdex/glyphdex/internal/usecase/health"
	iconuc "github.com/glyphdex/glyphdex/internal/usecase/icon"
	quotauc "github.com/glyphdex/glyphdex/internal/usecase/quota"
	searchuc "github.com/glyphdex/glyphdex/internal/usecase/search"
	usageuc "github.com/glyphdex/glyphdex/internal/usecase/usage"
	"github.com/glyphdex/glyphdex/internal/version"
)

func main() {
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

	logger.Info("Starting glyphdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	if err := iconrepo.EnsureIndex(ctx, store, cfg.Embedding.Dimensions, iconrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}); err != nil {
		logger.Fatal("Failed to ensure icon index", zap.Error(err))
	}

	embedder := buildEmbedder(ctx, cfg, store, logger)

	// Repositories
	iconRepo := iconrepo.New(store)
	collRepo := collectionrepo.New(store)
	searchRepo := searchrepo.New(store)
	usageRepo := usagerepo.New(store)
	tokenRepo := tokenrepo.New(store)

	// Use case services
	guard := quotauc.New(usageRepo, logger)
	searchSvc := searchuc.New(searchRepo, embedder, collRepo, iconRepo, guard, searchuc.Config{
		RRFK:         cfg.Search.RRFK,
		PoolHeadroom: cfg.Search.PoolHeadroom,
		PoolFloor:    cfg.Search.PoolFloor,
		PoolCeiling:  cfg.Search.PoolCeiling,
		EmbedTimeout: time.Duration(cfg.Embedding.TimeoutMS) * time.Millisecond,
	}, logger)
	iconSvc := iconuc.New(iconRepo)
	collSvc := collectionuc.New(collRepo)
	usageSvc := usageuc.New(usageRepo)
	// Same nil-interface gotcha as the budget checker: wrap only when an
	// embedder exists, otherwise pass a true nil interface.
	var embHealth healthuc.EmbeddingChecker
	if embedder != nil {
		embHealth = &embeddingHealthChecker{embedder: embedder}
	}
	healthSvc := healthuc.New(store, embHealth)

	server := chiTransport.NewServer(searchSvc, iconSvc, collSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(tokenRepo, cfg.Auth.AllowAnonymous, logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// Returns nil when no provider is configured; search then ranks lexical-only.
func buildEmbedder(
	ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger,
) domain.Embedder {
	if cfg.Embedding.APIKey == "" {
		logger.Warn("No embedding provider configured, semantic ranking disabled")
		return nil
	}

	// Single BudgetTracker shared by the embedder chain.
	var budget *embeddinguc.BudgetTracker
	budgetCfg := cfg.Embedding.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(
			cfg.Embedding.Provider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect persistence store — loads current counters from DB.
		budgetStore := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
		budget.WithStore(ctx, budgetStore)
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)

	embedder := embeddinguc.NewInstrumentedEmbedder(
		cached, cfg.Embedding.Provider, cfg.Embedding.Model, budgetChecker, logger,
	)

	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)
	return embedder
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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
					_ = json.NewEncoder(w).Encode(map[string]any{
						"code":      "INTERNAL",
						"message":   "internal error",
						"retryable": true,
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
