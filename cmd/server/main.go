package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/sitewalk/internal"
	"github.com/DukeRupert/sitewalk/internal/handler"
	"github.com/DukeRupert/sitewalk/internal/kv"
	"github.com/DukeRupert/sitewalk/internal/metrics"
	"github.com/DukeRupert/sitewalk/internal/middleware"
	"github.com/DukeRupert/sitewalk/internal/service"
	"github.com/DukeRupert/sitewalk/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize media storage
	objects, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Initialize the progress store backend
	store, closeStore, err := newStore(ctx, cfg, objects, logger)
	if err != nil {
		return fmt.Errorf("progress store initialization failed: %w", err)
	}
	defer closeStore()
	logger.Info("Progress store ready", "backend", cfg.KVBackend)

	// Initialize services
	progressService := service.NewProgressService(kv.Instrument(store, cfg.KVBackend), logger)
	mediaService := service.NewMediaService(progressService, objects, service.NewImagingProcessor(), cfg.MaxUploadBytes, logger)

	// Initialize handlers
	inspectionHandler := handler.NewInspectionHandler(progressService, mediaService, cfg.MaxUploadBytes, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	requestLogger := middleware.NewRequestLoggingMiddleware(logger)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isSecure)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	defer limiter.Stop()
	rateLimit := middleware.NewRateLimitMiddleware(limiter, logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	if cfg.MetricsUsername == "" || cfg.MetricsPassword == "" {
		logger.Warn("metrics endpoint is unprotected, set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (protected by basic auth if configured)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Uploaded media, when stored on the local filesystem
	if local, ok := objects.(*storage.LocalStorage); ok {
		prefix := filesPrefix(cfg.LocalStorageURL)
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, local.Handler()))
	}

	// Inspection API
	inspectionHandler.RegisterRoutes(mux)

	// Everything else is a JSON 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	// metrics.Middleware reads the matched route pattern, so it must sit
	// directly in front of the mux
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: middleware.Chain(mux,
			requestLogger.Handler,
			rateLimit.Limit,
			securityHeaders.Handler,
			metrics.Middleware,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the media storage backend selected by STORAGE_PROVIDER.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderR2:
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
			Endpoint:        cfg.R2Endpoint,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

// newStore builds the key-value backend selected by KV_BACKEND. The returned
// func releases its connections.
func newStore(ctx context.Context, cfg *internal.Config, objects storage.Storage, logger *slog.Logger) (kv.Store, func(), error) {
	switch cfg.KVBackend {
	case internal.KVBackendBlob:
		return kv.NewBlobStore(objects, cfg.KVPrefix), func() {}, nil

	case internal.KVBackendRedis:
		client, err := kv.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedisStore(client, cfg.KVPrefix), func() { client.Close() }, nil

	case internal.KVBackendPostgres:
		db, err := kv.OpenPostgres(ctx, cfg.DatabaseUrl)
		if err != nil {
			return nil, nil, err
		}
		if err := internal.RunMigrations(ctx, db, logger); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		return kv.NewPostgresStore(db), func() { db.Close() }, nil

	default:
		logger.Warn("using in-memory progress store, data is lost on restart")
		return kv.NewMemory(), func() {}, nil
	}
}

// filesPrefix returns the URL path local files are served under.
func filesPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "/files"
	}
	return "/" + strings.Trim(u.Path, "/")
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
