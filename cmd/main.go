package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/riichi/internal/adapters/chart"
	"github.com/okian/riichi/internal/adapters/http/api"
	"github.com/okian/riichi/internal/adapters/http/site"
	"github.com/okian/riichi/internal/adapters/http/swagger"
	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/internal/adapters/source"
	app "github.com/okian/riichi/internal/app"
	"github.com/okian/riichi/internal/config"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
	"github.com/okian/riichi/pkg/logger"
	"github.com/okian/riichi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	handler, err := newRouter(ctx, cfg, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService wires the source, store and chart renderer into the service.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	loader, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithSource(loader),
		app.WithStore(repository.NewMemoryStore()),
		app.WithChart(chart.New()),
		app.WithScoring(scoring.NewConfig(
			scoring.WithOka(cfg.Scoring.Oka),
			scoring.WithUma(cfg.Scoring.UmaArray()),
			scoring.WithTarget(cfg.Scoring.Target),
		)),
		app.WithPrior(rating.Prior{Mu: cfg.Rating.InitMu, Sigma: cfg.Rating.InitSigma}),
		app.WithAlgorithm(cfg.Rating.Algorithm),
		app.WithRefreshInterval(cfg.RefreshInterval),
	)
}

// newRouter mounts the API, the docs and the league page on one chi router.
// The API registers its middleware first; chi rejects middleware added after
// routes.
func newRouter(ctx context.Context, cfg *config.Config, svc *app.Service) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit, api.WithRefreshPerMinute(cfg.Limits.RefreshPerMinute))
	apiServer.Register(ctx, r)

	swagger.Register(ctx, r)

	if err := site.Register(ctx, r, svc, cfg.MaxLeaderboardLimit); err != nil {
		return nil, err
	}
	return r, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

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
		// Average pause across all collections
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
