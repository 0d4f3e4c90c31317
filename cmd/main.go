package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/careermap/internal/adapters/http/api"
	"github.com/okian/careermap/internal/adapters/http/site"
	"github.com/okian/careermap/internal/adapters/http/swagger"
	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/adapters/recommender/gemini"
	"github.com/okian/careermap/internal/adapters/recommender/offline"
	app "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/config"
	"github.com/okian/careermap/pkg/logger"
	"github.com/okian/careermap/pkg/metrics"
	"github.com/okian/careermap/pkg/tracing"
)

// HTTP server timeout constants. The write timeout covers a blocking
// assessment submission.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 90 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// We collect our own system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	shutdownTracing, err := tracing.Init(ctx,
		tracing.WithEndpoint(cfg.OTelEndpoint),
		tracing.WithInsecure(cfg.OTelInsecure),
		tracing.WithSampleRate(cfg.OTelSampleRate),
	)
	if err != nil {
		log.Warn(ctx, "tracing disabled", logger.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn(ctx, "failed to flush traces", logger.Error(err))
		}
	}()

	rec, err := newRecommender(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create recommender: %w", err)
	}

	svc := app.New(rec,
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithMaxSessions(cfg.MaxSessions),
		app.WithSessionTTL(cfg.SessionTTL()),
		app.WithRequestTimeout(cfg.RequestTimeout()),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newRecommender picks Gemini when an API key is configured and the
// offline recommender otherwise.
func newRecommender(ctx context.Context, cfg *config.Config) (recommender.Recommender, error) {
	log := logger.Get().Named("recommender")
	if cfg.GeminiAPIKey == "" {
		lo, hi := cfg.OfflineLatency()
		log.Warn(ctx, "no Gemini API key configured; using offline recommendations",
			logger.Duration("min_latency", lo),
			logger.Duration("max_latency", hi),
		)
		return offline.New(offline.WithLatencyRange(lo, hi)), nil
	}
	log.Info(ctx, "using Gemini recommendations", logger.String("model", cfg.GeminiModel))
	client, err := gemini.New(ctx, cfg.GeminiAPIKey,
		gemini.WithModel(cfg.GeminiModel),
		gemini.WithTemperature(float32(cfg.Temperature)),
		gemini.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newMux registers the docs, the API and the client site.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
