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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/config"
	dbRedis "github.com/kailas-cloud/propmatch/internal/db/redis"
	logpkg "github.com/kailas-cloud/propmatch/internal/logger"
	"github.com/kailas-cloud/propmatch/internal/metrics"
	"github.com/kailas-cloud/propmatch/internal/repository/feed"
	"github.com/kailas-cloud/propmatch/internal/repository/scorecache"
	chiTransport "github.com/kailas-cloud/propmatch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/propmatch/internal/usecase/health"
	"github.com/kailas-cloud/propmatch/internal/usecase/recommend"
	"github.com/kailas-cloud/propmatch/internal/usecase/scoring"
	"github.com/kailas-cloud/propmatch/internal/version"
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

	logger.Info("Starting propmatch API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("properties_path", cfg.Data.PropertiesPath),
		zap.String("pois_path", cfg.Data.POIsPath),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEngineMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Score cache: in-process, or shared through Redis/Valkey
	var (
		cache       recommend.Cache
		cachePinger healthuc.CachePinger
	)
	if cfg.Cache.Remote() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))

		cache = scorecache.NewRemote(store, cfg.Cache.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
		cachePinger = store
	} else {
		cache = scorecache.NewMemory(cfg.Cache.MaxEntries)
	}
	cache = scorecache.WithCounter(cache, metrics.ScoreCacheTotal)

	engine, err := recommend.New(engineConfig(cfg), cache, logger, nil)
	if err != nil {
		logger.Fatal("Invalid engine configuration", zap.Error(err))
	}

	// Initial snapshot; a failed read leaves the engine empty and health degraded
	reloader := recommend.NewReloader(engine, feed.Files{
		PropertiesPath: cfg.Data.PropertiesPath,
		POIsPath:       cfg.Data.POIsPath,
	}, logger)
	if err := reloader.Reload(ctx); err != nil {
		logger.Error("Initial snapshot load failed", zap.Error(err))
	}

	runCtx, stopReload := context.WithCancel(ctx)
	defer stopReload()
	go reloader.Run(runCtx, time.Duration(cfg.Data.ReloadIntervalSec)*time.Second)

	healthSvc := healthuc.New(engine, cachePinger)

	server := chiTransport.NewServer(engine, reloader, healthSvc, logger, chiTransport.Options{
		DefaultMinScore: cfg.Recommend.DefaultMinScore,
		AdminAPIKeys:    cfg.Auth.APIKeys,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware("/metrics"))
	server.Routes(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopReload()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// engineConfig overlays the YAML settings on the reference scorer thresholds.
func engineConfig(cfg config.Config) recommend.Config {
	sc := scoring.DefaultConfig()
	sc.Weights = cfg.Scoring.Weights.Domain()
	sc.RadiiKm = cfg.Scoring.RadiiKm
	sc.TransportRadiusKm = cfg.Scoring.TransportRadiusKm
	sc.DenseTransportCount = cfg.Scoring.DenseTransportCount

	return recommend.Config{
		Scoring:           sc,
		DateLayout:        cfg.Scoring.DateLayout,
		RecencyWindowDays: cfg.Scoring.RecencyWindowDays,
		SummaryRadiusKm:   cfg.Scoring.SummaryRadiusKm,
		DefaultLimit:      cfg.Recommend.DefaultLimit,
		MaxLimit:          cfg.Recommend.MaxLimit,
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
