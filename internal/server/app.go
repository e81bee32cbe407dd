// Package server wires configuration, storage, the auth engine and the HTTP
// API into a runnable process.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/accounts"
	"github.com/naazbookdepot/shopauth/internal/config"
	"github.com/naazbookdepot/shopauth/internal/httpapi"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
	"github.com/naazbookdepot/shopauth/internal/shop"
	otelexport "github.com/naazbookdepot/shopauth/metrics/export/otel"
	promexport "github.com/naazbookdepot/shopauth/metrics/export/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	rdb     *redis.Client
	engine  *shopauth.Engine
	handler http.Handler

	meterProvider metric.MeterProvider
	otelExporter  *otelexport.Exporter
}

type Option func(*App)

// WithMeterProvider publishes engine metrics as OTel instruments on mp. The
// caller owns mp and its readers; the app only unregisters its callbacks.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(app *App) {
		app.meterProvider = mp
	}
}

// NewApp connects to PostgreSQL, applies migrations and builds the app.
func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, rm, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, opts ...Option) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	app := &App{config: c, logger: logger, db: db}
	for _, opt := range opts {
		opt(app)
	}

	builder := shopauth.New().
		WithConfig(c.Engine()).
		WithUserStore(accounts.NewStore(db, rm)).
		WithLogger(logger).
		WithAuditSink(shopauth.NewLoggerSink(logger))

	if c.RedisAddr != "" {
		app.rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := app.rdb.Ping(ctx).Err(); err != nil {
			_ = app.rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		builder = builder.WithRedis(app.rdb)
	}

	engine, err := builder.Build()
	if err != nil {
		app.closeRedis()
		return nil, fmt.Errorf("auth engine: %w", err)
	}
	app.engine = engine

	var metrics http.Handler
	if c.MetricsEnabled {
		metrics = promexport.New(engine).Handler()
	}

	if app.meterProvider != nil {
		app.otelExporter, err = otelexport.Register(app.meterProvider.Meter("shopauth"), engine)
		if err != nil {
			engine.Close()
			app.closeRedis()
			return nil, fmt.Errorf("otel exporter: %w", err)
		}
	}

	svc := shop.NewService(db, rm, logger)
	app.handler = httpapi.NewRouter(httpapi.NewHandler(engine, svc, logger, metrics))

	return app, nil
}

func (app *App) Handler() http.Handler {
	return app.handler
}

// pruneLoop drops expired in-memory rate-limit windows. Redis expires its
// own keys, so the loop only runs without Redis.
func (app *App) pruneLoop(ctx context.Context) {
	interval := app.engine.Config().RateLimit.PruneInterval
	if app.rdb != nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := app.engine.PruneRateLimits(now); n > 0 {
				app.logger.Debug(ctx, "rate limit windows pruned", "count", n)
			}
		}
	}
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully and releases every resource.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.logger.Info(ctx, "starting server", "addr", app.config.Addr, "env", app.config.Environment)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.pruneLoop(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown", "error", err)
	}
	wg.Wait()

	app.Close(shutdownCtx)
	app.logger.Info(shutdownCtx, "server stopped")
	return serveErr
}

// Close releases the engine, the OTel callbacks, Redis and the database.
func (app *App) Close(ctx context.Context) {
	if app.otelExporter != nil {
		if err := app.otelExporter.Close(); err != nil {
			app.logger.Warn(ctx, "otel exporter close", "error", err)
		}
	}
	if app.engine != nil {
		app.engine.Close()
	}
	app.closeRedis()
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close", "error", err)
		}
	}
}

func (app *App) closeRedis() {
	if app.rdb != nil {
		_ = app.rdb.Close()
		app.rdb = nil
	}
}
